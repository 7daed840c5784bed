// Package metadata embeds and verifies dataset snapshot blocks in generated
// reports, so a report can be traced back to the exact dataset state it
// describes.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// TagStart is the start of the snapshot block.
	TagStart = "<!-- SNAPSHOT_START"
	// TagEnd is the end of the snapshot block.
	TagEnd = "SNAPSHOT_END -->"
)

// Snapshot verification errors.
var (
	ErrNoSnapshotBlock = errors.New("no snapshot block found")
	ErrNoHashFound     = errors.New("no hash found in snapshot")
	ErrHashMismatch    = errors.New("hash mismatch")
)

// Snapshot describes the dataset state a report was generated from.
type Snapshot struct {
	GeneratedAt time.Time
	Records     int
	Hash        string
}

// snapshotRegex matches the entire snapshot block including tags.
var snapshotRegex = regexp.MustCompile(`(?s)<!--\s*SNAPSHOT_START\s*\n(.*?)\n\s*SNAPSHOT_END\s*-->`)

// Extract removes the snapshot block from content and returns both the
// snapshot and the cleaned content. The cleaned content is what gets hashed.
func Extract(content string) (*Snapshot, string) {
	match := snapshotRegex.FindStringSubmatch(content)
	cleanContent := strings.TrimRight(snapshotRegex.ReplaceAllString(content, ""), "\n")

	if len(match) < 2 {
		return nil, cleanContent
	}

	snap := &Snapshot{}

	for line := range strings.SplitSeq(match[1], "\n") {
		parts := strings.SplitN(strings.TrimSpace(line), ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		val := strings.TrimSpace(parts[1])

		switch key {
		case "GENERATED_AT":
			if t, err := time.Parse(time.RFC3339, val); err == nil {
				snap.GeneratedAt = t
			}
		case "RECORDS":
			if n, err := strconv.Atoi(val); err == nil {
				snap.Records = n
			}
		case "HASH":
			snap.Hash = val
		}
	}

	return snap, cleanContent
}

// CalculateHash computes the SHA-256 hash of the content, excluding any
// snapshot block.
func CalculateHash(content string) string {
	_, clean := Extract(content)
	hash := sha256.Sum256([]byte(clean))

	return hex.EncodeToString(hash[:])
}

// Sign appends or replaces the snapshot block with a fresh hash, record
// count and timestamp.
func Sign(content string, records int) string {
	_, clean := Extract(content)

	hash := CalculateHash(clean)
	now := time.Now().UTC().Format(time.RFC3339)

	block := fmt.Sprintf("\n\n%s\nGENERATED_AT: %s\nRECORDS: %d\nHASH: %s\n%s",
		TagStart, now, records, hash, TagEnd)

	return clean + block
}

// Verify checks if the content matches the hash in its snapshot block.
func Verify(content string) (bool, error) {
	snap, clean := Extract(content)
	if snap == nil {
		return false, ErrNoSnapshotBlock
	}

	if snap.Hash == "" {
		return false, ErrNoHashFound
	}

	calculated := CalculateHash(clean)
	if calculated != snap.Hash {
		return false, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, snap.Hash, calculated)
	}

	return true, nil
}
