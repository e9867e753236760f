package cache

import (
	"context"
	"testing"
	"time"

	"github.com/mlops-microproject/review-workspace/internal/config"
	"github.com/mlops-microproject/review-workspace/internal/models"
)

func TestDisabledCacheIsNoop(t *testing.T) {
	if err := InitRedis(&config.RedisConfig{Enabled: false}); err != nil {
		t.Fatalf("init disabled failed: %v", err)
	}
	if Enabled() || Client() != nil {
		t.Fatalf("cache should be disabled")
	}
	ctx := context.Background()
	if err := SetAnalyzeJob(ctx, &models.AnalyzeJob{ID: "j1"}, time.Minute); err != nil {
		t.Fatalf("set on disabled cache should be a no-op: %v", err)
	}
	job, hit, err := GetAnalyzeJob(ctx, "j1")
	if err != nil || hit || job != nil {
		t.Fatalf("get on disabled cache should miss, got job=%v hit=%v err=%v", job, hit, err)
	}
	if err := Ping(ctx); err != nil {
		t.Fatalf("ping on disabled cache: %v", err)
	}
}

func TestBuildKeyPrefix(t *testing.T) {
	saved := redisPrefix
	t.Cleanup(func() { redisPrefix = saved })
	redisPrefix = "rw"
	if got := buildKey(analyzeJobKey("abc")); got != "rw:analyze:job:abc" {
		t.Fatalf("unexpected key: %s", got)
	}
	if got := buildKey("  "); got != "rw" {
		t.Fatalf("blank key should map to the prefix, got %s", got)
	}
}

func TestEmptyJobIDIsIgnored(t *testing.T) {
	ctx := context.Background()
	if _, hit, err := GetAnalyzeJob(ctx, " "); hit || err != nil {
		t.Fatalf("blank id should miss")
	}
	if err := SetAnalyzeJob(ctx, &models.AnalyzeJob{}, time.Minute); err != nil {
		t.Fatalf("blank id set should be ignored: %v", err)
	}
}
