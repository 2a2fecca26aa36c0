package geo

import (
	"math"
	"testing"
)

// TestDistanceMeters_SamePoint 相同坐标距离应为 0
func TestDistanceMeters_SamePoint(t *testing.T) {
	if d := DistanceMeters(0, 0, 0, 0); d != 0 {
		t.Errorf("DistanceMeters(0,0,0,0) = %f, want 0", d)
	}
	if d := DistanceMeters(39.9042, 116.4074, 39.9042, 116.4074); d != 0 {
		t.Errorf("same point distance = %f, want 0", d)
	}
}

// TestDistanceMeters_KnownDistance 赤道上经度相差 1 度约 111.19 公里
func TestDistanceMeters_KnownDistance(t *testing.T) {
	d := DistanceMeters(0, 0, 0, 1)
	want := 2 * math.Pi * earthRadiusMeters / 360

	if math.Abs(d-want) > 1 {
		t.Errorf("DistanceMeters(0,0,0,1) = %f, want about %f", d, want)
	}
}

// TestDistanceMeters_Symmetric 距离应与参数顺序无关
func TestDistanceMeters_Symmetric(t *testing.T) {
	d1 := DistanceMeters(39.9042, 116.4074, 31.2304, 121.4737)
	d2 := DistanceMeters(31.2304, 121.4737, 39.9042, 116.4074)

	if math.Abs(d1-d2) > 1e-6 {
		t.Errorf("distance not symmetric: %f vs %f", d1, d2)
	}
}

// TestIsWithinRadius_Boundary 边界距离应算作在范围内（<=，不是 <）
func TestIsWithinRadius_Boundary(t *testing.T) {
	lat2, lon2 := 0.0, 0.001
	boundary := DistanceMeters(0, 0, lat2, lon2)

	if !IsWithinRadius(0, 0, lat2, lon2, boundary) {
		t.Error("point exactly at boundary distance should be within radius")
	}
	if IsWithinRadius(0, 0, lat2, lon2, boundary-0.001) {
		t.Error("point just outside radius should not be within")
	}
}

// TestIsWithinRadius_DefaultRadius 未配置半径时默认 100 米
func TestIsWithinRadius_DefaultRadius(t *testing.T) {
	// 约 55 米
	if !IsWithinRadius(0, 0, 0, 0.0005, 0) {
		t.Error("55m should be within default 100m radius")
	}
	// 约 1.1 公里
	if IsWithinRadius(0, 0, 0, 0.01, 0) {
		t.Error("1.1km should not be within default 100m radius")
	}
}
