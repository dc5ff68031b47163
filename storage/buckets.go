package storage

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownBucket = errors.New("unknown storage bucket")

// Bucket is one of the fixed image buckets.
type Bucket string

const (
	BucketTeamLogos        Bucket = "team-logos"
	BucketPlayerPhotos     Bucket = "player-photos"
	BucketHeroImages       Bucket = "hero-images"
	BucketTournamentAssets Bucket = "tournament-assets"
	BucketMatchScreenshots Bucket = "match-screenshots"
)

var bucketKeys = map[string]Bucket{
	"TEAM_LOGOS":        BucketTeamLogos,
	"PLAYER_PHOTOS":     BucketPlayerPhotos,
	"HERO_IMAGES":       BucketHeroImages,
	"TOURNAMENT_ASSETS": BucketTournamentAssets,
	"MATCH_SCREENSHOTS": BucketMatchScreenshots,
}

func AllBuckets() []Bucket {
	return []Bucket{BucketTeamLogos, BucketPlayerPhotos, BucketHeroImages, BucketTournamentAssets, BucketMatchScreenshots}
}

// ParseBucket accepts either the bucket name ("team-logos") or its constant
// key ("TEAM_LOGOS").
func ParseBucket(s string) (Bucket, error) {
	s = strings.TrimSpace(s)
	if b, ok := bucketKeys[s]; ok {
		return b, nil
	}
	for _, b := range AllBuckets() {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBucket, s)
}

func (b Bucket) String() string {
	return string(b)
}
