package config

import (
    "os"
    "strconv"
    "time"
)

// RateLimitConfig describes one Redis token bucket.  The API runs two of
// them: a global bucket for every request and a tighter one in front of
// the anonymous credential endpoints (sign_in, sign_up, POS login).
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

// LoadRateLimitConfig reads RATE_LIMIT_* for the global bucket.
func LoadRateLimitConfig() RateLimitConfig {
    return loadRateLimit("RATE_LIMIT_", RateLimitConfig{
        Enabled:        true,
        Capacity:       60,
        RefillTokens:   1,
        RefillInterval: time.Second,
        TTL:            10 * time.Minute,
        KeyStrategy:    "ip_user_route",
        Prefix:         "rl",
    })
}

// LoadAuthRateLimitConfig reads AUTH_RATE_LIMIT_* for the credential bucket.
// Keys are per IP and route since callers are anonymous.
func LoadAuthRateLimitConfig() RateLimitConfig {
    return loadRateLimit("AUTH_RATE_LIMIT_", RateLimitConfig{
        Enabled:        true,
        Capacity:       5,
        RefillTokens:   1,
        RefillInterval: 12 * time.Second,
        TTL:            10 * time.Minute,
        KeyStrategy:    "ip_route",
        Prefix:         "rl:auth",
    })
}

func loadRateLimit(p string, def RateLimitConfig) RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:        envBool(p+"ENABLED", def.Enabled),
        Capacity:       envInt(p+"CAPACITY", def.Capacity),
        RefillTokens:   envInt(p+"REFILL_TOKENS", def.RefillTokens),
        RefillInterval: envDur(p+"REFILL_INTERVAL", def.RefillInterval),
        TTL:            envDur(p+"TTL", def.TTL),
        KeyStrategy:    envStr(p+"KEY_STRATEGY", def.KeyStrategy),
        Prefix:         envStr(p+"PREFIX", def.Prefix),
        Debug:          envBool(p+"DEBUG", false),
    }
    if b := envInt(p+"BURST", -1); b > 0 { cfg.Capacity = b }
    if every := envDur(p+"REFILL_EVERY", 0); every > 0 {
        cfg.RefillTokens = 1
        cfg.RefillInterval = every
    }
    if cfg.Capacity < 1 { cfg.Capacity = 1 }
    if cfg.RefillTokens < 1 { cfg.RefillTokens = 1 }
    if cfg.RefillInterval <= 0 { cfg.RefillInterval = time.Second }
    // keys must outlive a full refill or buckets reset early
    minTTL := 5 * cfg.RefillInterval
    if cfg.TTL < minTTL { cfg.TTL = minTTL }
    return cfg
}

func envStr(k, d string) string { if v := os.Getenv(k); v != "" { return v }; return d }
func envBool(k string, d bool) bool {
    v := os.Getenv(k)
    if v == "" { return d }
    switch v {
    case "1","true","TRUE","True","yes","YES","on","ON": return true
    case "0","false","FALSE","False","no","NO","off","OFF": return false
    }
    return d
}
func envInt(k string, d int) int {
    v := os.Getenv(k); if v == "" { return d }
    if n, err := strconv.Atoi(v); err == nil { return n }
    return d
}
func envDur(k string, d time.Duration) time.Duration {
    v := os.Getenv(k); if v == "" { return d }
    if dur, err := time.ParseDuration(v); err == nil { return dur }
    return d
}
