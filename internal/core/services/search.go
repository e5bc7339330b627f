package services

import (
	"encoding/binary"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/blake3"

	"github.com/lorrc/ticket-sync/internal/core/domain"
)

// DefaultSearchCacheSize bounds the number of memoized (snapshot, term) results.
const DefaultSearchCacheSize = 64

// FilterTickets returns the tickets whose title, description, category or
// admin comment contains term, ignoring case. The term is not trimmed; an
// empty term matches every ticket. The input slice is never modified.
func FilterTickets(tickets []domain.Ticket, term string) []domain.Ticket {
	needle := strings.ToLower(term)
	matched := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if matchesTicket(t, needle) {
			matched = append(matched, t)
		}
	}
	return matched
}

func matchesTicket(t domain.Ticket, needle string) bool {
	for _, field := range []string{t.Title, t.Description, t.Category, t.AdminComment} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// Fingerprint is a content hash of a ticket collection. Two collections with
// the same tickets in the same order share a fingerprint.
type Fingerprint [32]byte

// FingerprintTickets hashes every field of every ticket in order.
func FingerprintTickets(tickets []domain.Ticket) Fingerprint {
	hasher := blake3.New()

	var id [8]byte
	for _, t := range tickets {
		binary.BigEndian.PutUint64(id[:], uint64(t.ID))
		hasher.Write(id[:])
		for _, field := range []string{t.Title, t.Description, t.Category, t.Priority, t.Status, t.AdminComment, t.CreatedAt} {
			binary.BigEndian.PutUint64(id[:], uint64(len(field)))
			hasher.Write(id[:])
			hasher.Write([]byte(field))
		}
	}

	var fp Fingerprint
	copy(fp[:], hasher.Sum(nil))
	return fp
}

type searchKey struct {
	fingerprint Fingerprint
	term        string
}

// SearchIndex memoizes FilterTickets per (collection, term) pair.
type SearchIndex struct {
	cache *lru.Cache[searchKey, []domain.Ticket]
}

// NewSearchIndex creates an index holding up to size results.
func NewSearchIndex(size int) (*SearchIndex, error) {
	if size <= 0 {
		size = DefaultSearchCacheSize
	}
	cache, err := lru.New[searchKey, []domain.Ticket](size)
	if err != nil {
		return nil, err
	}
	return &SearchIndex{cache: cache}, nil
}

// Filter returns the memoized result for the collection identified by fp,
// computing it on a miss. Repeated calls return the same slice, which must
// be treated as read-only.
func (s *SearchIndex) Filter(fp Fingerprint, tickets []domain.Ticket, term string) []domain.Ticket {
	key := searchKey{fingerprint: fp, term: term}
	if cached, ok := s.cache.Get(key); ok {
		return cached
	}
	result := FilterTickets(tickets, term)
	s.cache.Add(key, result)
	return result
}

// Len returns the number of memoized results.
func (s *SearchIndex) Len() int {
	return s.cache.Len()
}
