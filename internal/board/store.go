package board

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"gorm.io/gorm"

	"github.com/kalpasnet/kotoba/internal/models"
)

const (
	// SoftCap is the post count above which a prune is triggered.
	SoftCap = 200
	// RetentionFloor is how many of the newest posts survive a prune.
	// Eviction is aggressive on purpose: the board keeps a small recent
	// window, not a gradually trimmed archive.
	RetentionFloor = 3
)

// listOrder is the canonical listing order: most recent first, id as the
// tiebreak for posts sharing a timestamp.
const listOrder = "created_at DESC, id DESC"

// Matcher decides whether a bulk-delete predicate selects a post.
// New qualifiers extend this without touching the delete call contract.
type Matcher interface {
	Match(p *models.Post) bool
}

// colorQualifier is reserved in the destroy grammar but has no matcher
// behind it yet.
const colorQualifier = "(color)"

type substringMatcher struct {
	needle string
}

func (m substringMatcher) Match(p *models.Post) bool {
	return strings.Contains(strings.ToLower(p.Content), m.needle) ||
		strings.Contains(strings.ToLower(p.AuthorTag), m.needle)
}

// NewPatternMatcher compiles a destroy pattern into a Matcher. Today the
// only form is a case-insensitive substring over content and author tag.
func NewPatternMatcher(pattern string) (Matcher, error) {
	if strings.HasPrefix(pattern, colorQualifier) {
		return nil, fmt.Errorf("%w: qualifier %q is not implemented", ErrValidation, colorQualifier)
	}
	return substringMatcher{needle: strings.ToLower(pattern)}, nil
}

// PostStore is the bounded, ordered post collection. Every mutation runs
// under one mutex and one transaction, so a command that reads the
// current listing and then deletes by position sees no interleaved
// appends shifting positions mid-command.
type PostStore struct {
	mu sync.Mutex
	db *gorm.DB
}

func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// Append inserts a post and fills in its assigned id.
func (s *PostStore) Append(p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Create(p).Error
}

// ListOrdered returns all posts, most recent first. Read-only; safe to
// call concurrently with other reads.
func (s *PostStore) ListOrdered() ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Order(listOrder).Find(&posts).Error
	return posts, err
}

// Count returns the number of stored posts.
func (s *PostStore) Count() (int64, error) {
	var n int64
	err := s.db.Model(&models.Post{}).Count(&n).Error
	return n, err
}

// DeleteByPosition deletes the posts at the given 1-based positions in
// the current ordered listing. Positions beyond the listing are silently
// ignored; duplicates collapse. Returns the positions that resolved to a
// post, sorted ascending, or ErrNotFound if none did. Listing and delete
// happen in one critical section so positions cannot drift.
func (s *PostStore) DeleteByPosition(positions []int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var resolved []int
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var posts []models.Post
		if err := tx.Order(listOrder).Find(&posts).Error; err != nil {
			return err
		}

		seen := make(map[int]bool, len(positions))
		var ids []uint
		for _, pos := range positions {
			if pos < 1 || pos > len(posts) || seen[pos] {
				continue
			}
			seen[pos] = true
			ids = append(ids, posts[pos-1].ID)
			resolved = append(resolved, pos)
		}
		if len(ids) == 0 {
			return ErrNotFound
		}
		return tx.Where("id IN ?", ids).Delete(&models.Post{}).Error
	})
	if err != nil {
		return nil, err
	}
	sort.Ints(resolved)
	return resolved, nil
}

// DeleteByPredicate deletes every post the matcher selects and returns
// how many were removed. Matching runs in Go over a snapshot taken in
// the same transaction as the delete; the store stays small enough (the
// prune cap bounds it) that this is cheap.
func (s *PostStore) DeleteByPredicate(m Matcher) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var posts []models.Post
		if err := tx.Find(&posts).Error; err != nil {
			return err
		}
		var ids []uint
		for i := range posts {
			if m.Match(&posts[i]) {
				ids = append(ids, posts[i].ID)
			}
		}
		if len(ids) == 0 {
			return nil
		}
		if err := tx.Where("id IN ?", ids).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		deleted = len(ids)
		return nil
	})
	return deleted, err
}

// ClearAll removes every post and restarts id numbering, so the next
// post created after a clear gets the first id again.
func (s *PostStore) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Post{}).Error; err != nil {
			return err
		}
		// Sequence reset is best effort per dialect; sqlite_sequence may
		// not exist before the first insert.
		switch s.db.Dialector.Name() {
		case "sqlite":
			tx.Exec("DELETE FROM sqlite_sequence WHERE name = ?", "posts")
		case "postgres":
			tx.Exec("ALTER SEQUENCE posts_id_seq RESTART WITH 1")
		}
		return nil
	})
}

// PruneToRetentionFloor enforces the retention cap: when the store has
// grown past the soft cap, everything but the newest few posts goes.
// Returns how many posts were removed. Called by the posting pipeline
// after every successful plain append, never by reads or deletes.
func (s *PostStore) PruneToRetentionFloor() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pruned := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Post{}).Count(&n).Error; err != nil {
			return err
		}
		if n <= SoftCap {
			return nil
		}

		var keep []uint
		if err := tx.Model(&models.Post{}).Order(listOrder).Limit(RetentionFloor).Pluck("id", &keep).Error; err != nil {
			return err
		}
		res := tx.Where("id NOT IN ?", keep).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		pruned = int(res.RowsAffected)
		return nil
	})
	return pruned, err
}
