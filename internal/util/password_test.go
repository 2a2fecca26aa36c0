package util

import (
	"strings"
	"testing"
	"time"
)

// ============ 密码哈希测试 ============

func TestHashPassword(t *testing.T) {
	password := "MyPassword123"

	// 测试正常哈希
	hashed, err := HashPassword(password, 4)
	if err != nil {
		t.Fatalf("哈希失败: %v", err)
	}
	if !strings.HasPrefix(hashed, "$") {
		t.Error("哈希格式错误，应以 $ 开头")
	}

	// 测试空密码
	if _, err = HashPassword("", 4); err == nil {
		t.Error("空密码应返回错误")
	}

	// 测试相同密码生成不同哈希
	hashed2, _ := HashPassword(password, 4)
	if hashed == hashed2 {
		t.Error("相同密码应生成不同哈希（随机salt）")
	}

	// cost 超出范围时应退回默认值而不是报错
	if _, err := HashPassword(password, 99); err != nil {
		t.Errorf("非法 cost 应退回默认值: %v", err)
	}
}

func TestCheckPassword(t *testing.T) {
	password := "TestPass456"
	hashed, _ := HashPassword(password, 4)

	// 测试正确密码
	if !CheckPassword(password, hashed) {
		t.Error("正确密码验证失败")
	}

	// 测试错误密码
	if CheckPassword("WrongPass", hashed) {
		t.Error("错误密码不应通过验证")
	}

	// 测试空输入
	if CheckPassword("", hashed) {
		t.Error("空密码不应通过验证")
	}
	if CheckPassword(password, "") {
		t.Error("空哈希不应通过验证")
	}

	// 测试无效格式
	if CheckPassword(password, "invalid-format") {
		t.Error("无效格式不应通过验证")
	}
}

// ============ JWT 测试 ============

func TestGenerateAndParseToken(t *testing.T) {
	secret := "test-secret"

	token, err := GenerateToken(secret, "workcheck", 42, time.Hour)
	if err != nil {
		t.Fatalf("生成 token 失败: %v", err)
	}

	claims, err := ParseToken(secret, token)
	if err != nil {
		t.Fatalf("解析 token 失败: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Issuer != "workcheck" {
		t.Errorf("Issuer = %q, want workcheck", claims.Issuer)
	}

	// 错误密钥应解析失败
	if _, err := ParseToken("wrong-secret", token); err == nil {
		t.Error("错误密钥不应通过验证")
	}
}

func TestGenerateToken_DefaultTTL(t *testing.T) {
	secret := "test-secret"

	token, err := GenerateToken(secret, "workcheck", 1, -time.Hour)
	if err != nil {
		t.Fatalf("生成 token 失败: %v", err)
	}
	// ttl <= 0 时退回 24h，token 应仍然有效
	if _, err := ParseToken(secret, token); err != nil {
		t.Errorf("默认有效期 token 解析失败: %v", err)
	}
}
