package controllers

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/JDanielFV/erp/models"
	"github.com/JDanielFV/erp/utils"
)

// ErrUserNotFound means every resolution rule was exhausted without a match.
var ErrUserNotFound = errors.New("user not found")

const resolverCacheTTL = time.Minute

// resolveRule pairs a token predicate with the lookup it enables. Rules run
// in declaration order and the first hit wins, so the chain stays a small
// decision table instead of nested conditionals.
type resolveRule struct {
	name   string
	match  func(token string) bool
	lookup func(db *gorm.DB, token string) (*models.User, error)
}

func anyToken(string) bool { return true }

// looksLikeIdentityKey is a length heuristic carried over from the first
// schema version: short codes stay well under 20 characters while identity
// keys are 36-char UUIDs. It deliberately does not validate key format.
func looksLikeIdentityKey(token string) bool { return len(token) > 20 }

func lookupByColumn(column string, value func(*models.User) string) func(db *gorm.DB, token string) (*models.User, error) {
	return func(db *gorm.DB, token string) (*models.User, error) {
		var user models.User
		if err := db.Where(column+" = ?", token).First(&user).Error; err != nil {
			return nil, err
		}
		// Resolution is byte-exact. A row the collation folded into a match
		// (case, accents, trailing spaces) counts as a miss and the chain
		// moves on.
		if value(&user) != token {
			return nil, gorm.ErrRecordNotFound
		}
		return &user, nil
	}
}

// Resolution order: badge short code, then identity key for long tokens,
// then full name as the migration-era fallback. Exact equality only.
var resolveRules = []resolveRule{
	{name: "short_code", match: anyToken, lookup: lookupByColumn("short_code", func(u *models.User) string { return u.ShortCode })},
	{name: "identity_key", match: looksLikeIdentityKey, lookup: lookupByColumn("id", func(u *models.User) string { return u.ID })},
	{name: "full_name", match: anyToken, lookup: lookupByColumn("full_name", func(u *models.User) string { return u.FullName })},
}

// ResolveUser maps a scanned token to exactly one user. Read-only; returns
// ErrUserNotFound when all rules miss, or the first storage error hit.
func ResolveUser(db *gorm.DB, token string) (*models.User, error) {
	for _, rule := range resolveRules {
		if !rule.match(token) {
			continue
		}
		user, err := rule.lookup(db, token)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return nil, ErrUserNotFound
}

// Cache accessors held as variables so tests can stub Redis away.
var (
	cacheGet = utils.CacheGetJSON
	cacheSet = utils.CacheSetJSON
)

// resolveUserCached fronts ResolveUser with a short-TTL Redis cache keyed by
// the raw token. Only successful resolutions are cached: a freshly printed
// badge must work on its first scan. Redis being unavailable degrades to a
// plain DB lookup.
func resolveUserCached(db *gorm.DB, token string) (*models.User, error) {
	key := "resolver:token:" + token
	var cached models.User
	if cacheGet(key, &cached) && cached.ID != "" {
		return &cached, nil
	}

	user, err := ResolveUser(db, token)
	if err != nil {
		return nil, err
	}
	cacheSet(key, user, resolverCacheTTL)
	return user, nil
}
