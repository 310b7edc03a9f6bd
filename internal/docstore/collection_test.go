package docstore_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"studyhub/internal/docstore"
	id "studyhub/pkg/domain"
	"studyhub/pkg/platform/sentinel"
	"studyhub/pkg/requestcontext"
)

type widget struct {
	ID id.GroupID `json:"_id"`
	docstore.BaseDoc
	Name    string      `json:"name"`
	Owner   id.UserID   `json:"owner"`
	Members []id.UserID `json:"members"`
	Rank    int         `json:"rank"`
}

// CollectionSuite exercises a Collection against whatever engine newEngine returns,
// so the memory and Postgres engines are held to the same behavior.
type CollectionSuite struct {
	suite.Suite
	newEngine func() docstore.Engine
	coll      *docstore.Collection[widget]
	ctx       context.Context
	now       time.Time
}

func TestMemoryCollectionSuite(t *testing.T) {
	suite.Run(t, &CollectionSuite{newEngine: func() docstore.Engine { return docstore.NewMemoryEngine() }})
}

func (s *CollectionSuite) SetupTest() {
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	coll, err := docstore.NewCollection[widget](s.ctx, s.newEngine(), "widgets", docstore.Unique("name"))
	s.Require().NoError(err)
	s.coll = coll
}

func (s *CollectionSuite) create(name string, owner id.UserID, rank int, members ...id.UserID) widget {
	w := widget{Name: name, Owner: owner, Rank: rank, Members: members}
	_, err := s.coll.CreateOne(s.ctx, &w)
	s.Require().NoError(err)
	return w
}

func (s *CollectionSuite) TestCreateOne() {
	owner := id.UserID(uuid.New())
	w := widget{Name: "physics", Owner: owner, Members: []id.UserID{owner}}

	newID, err := s.coll.CreateOne(s.ctx, &w)
	s.Require().NoError(err)

	s.Equal(id.GroupID(newID), w.ID)
	s.Equal(int64(1), w.Version)
	s.True(w.DateCreated.Equal(s.now))
	s.True(w.DateUpdated.Equal(s.now))

	got, err := s.coll.ReadOne(s.ctx, docstore.Eq(docstore.FieldID, w.ID))
	s.Require().NoError(err)
	s.Equal(w, *got)
}

func (s *CollectionSuite) TestUniqueIndex() {
	s.create("chem", id.UserID(uuid.New()), 0)

	dup := widget{Name: "chem", Owner: id.UserID(uuid.New())}
	_, err := s.coll.CreateOne(s.ctx, &dup)
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)

	other := s.create("bio", id.UserID(uuid.New()), 0)
	err = s.coll.UpdateOne(s.ctx, docstore.Eq(docstore.FieldID, other.ID), docstore.Fields{"name": "chem"})
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *CollectionSuite) TestReadOneNotFound() {
	_, err := s.coll.ReadOne(s.ctx, docstore.Eq("name", "missing"))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *CollectionSuite) TestFilters() {
	alice, bob, carol := id.UserID(uuid.New()), id.UserID(uuid.New()), id.UserID(uuid.New())
	s.create("a", alice, 1, alice, bob)
	s.create("b", bob, 2, bob)
	s.create("c", carol, 3, carol, alice)

	s.Run("contains", func() {
		got, err := s.coll.ReadMany(s.ctx, docstore.Contains("members", alice), docstore.SortBy("name", false))
		s.Require().NoError(err)
		s.Require().Len(got, 2)
		s.Equal("a", got[0].Name)
		s.Equal("c", got[1].Name)
	})

	s.Run("in", func() {
		got, err := s.coll.ReadMany(s.ctx, docstore.In("name", "a", "b", "zzz"))
		s.Require().NoError(err)
		s.Len(got, 2)
	})

	s.Run("empty in matches nothing", func() {
		got, err := s.coll.ReadMany(s.ctx, docstore.In[string]("name"))
		s.Require().NoError(err)
		s.Empty(got)
	})

	s.Run("or of and", func() {
		got, err := s.coll.ReadMany(s.ctx, docstore.Or(
			docstore.And(docstore.Eq("owner", alice), docstore.Contains("members", bob)),
			docstore.Eq("owner", carol),
		))
		s.Require().NoError(err)
		s.Len(got, 2)
	})

	s.Run("sort desc with limit", func() {
		got, err := s.coll.ReadMany(s.ctx, docstore.All(), docstore.SortBy("rank", true), docstore.Limit(2))
		s.Require().NoError(err)
		s.Require().Len(got, 2)
		s.Equal(3, got[0].Rank)
		s.Equal(2, got[1].Rank)
	})
}

func (s *CollectionSuite) TestSortByDateCreated() {
	owner := id.UserID(uuid.New())
	for i, name := range []string{"first", "second", "third"} {
		ctx := requestcontext.WithTime(context.Background(), s.now.Add(time.Duration(i)*time.Second+time.Duration(i)*time.Microsecond))
		w := widget{Name: name, Owner: owner}
		_, err := s.coll.CreateOne(ctx, &w)
		s.Require().NoError(err)
	}

	got, err := s.coll.ReadMany(s.ctx, docstore.Eq("owner", owner), docstore.SortBy(docstore.FieldDateCreated, true))
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal("third", got[0].Name)
	s.Equal("first", got[2].Name)
}

func (s *CollectionSuite) TestUpdateOne() {
	w := s.create("math", id.UserID(uuid.New()), 1)
	later := requestcontext.WithTime(context.Background(), s.now.Add(time.Hour))

	err := s.coll.UpdateOne(later, docstore.Eq(docstore.FieldID, w.ID), docstore.Fields{"rank": 7, "_v": 99})
	s.Require().NoError(err)

	got, err := s.coll.ReadOne(s.ctx, docstore.Eq(docstore.FieldID, w.ID))
	s.Require().NoError(err)
	s.Equal(7, got.Rank)
	s.Equal(int64(2), got.Version)
	s.True(got.DateCreated.Equal(s.now))
	s.True(got.DateUpdated.Equal(s.now.Add(time.Hour)))

	err = s.coll.UpdateOne(s.ctx, docstore.Eq("name", "missing"), docstore.Fields{"rank": 1})
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *CollectionSuite) TestReplaceIfVersion() {
	w := s.create("art", id.UserID(uuid.New()), 1)

	first, err := s.coll.ReadOne(s.ctx, docstore.Eq(docstore.FieldID, w.ID))
	s.Require().NoError(err)
	second := *first

	first.Rank = 10
	s.Require().NoError(s.coll.ReplaceIfVersion(s.ctx, first))

	second.Rank = 20
	err = s.coll.ReplaceIfVersion(s.ctx, &second)
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	got, err := s.coll.ReadOne(s.ctx, docstore.Eq(docstore.FieldID, w.ID))
	s.Require().NoError(err)
	s.Equal(10, got.Rank)
	s.Equal(int64(2), got.Version)
	s.Equal(w.ID, got.ID)

	s.Require().NoError(s.coll.DeleteOne(s.ctx, docstore.Eq(docstore.FieldID, w.ID)))
	err = s.coll.ReplaceIfVersion(s.ctx, got)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *CollectionSuite) TestReplaceOneKeepsIdentity() {
	w := s.create("music", id.UserID(uuid.New()), 1)

	replacement := widget{Name: "music", Rank: 5}
	err := s.coll.ReplaceOne(s.ctx, docstore.Eq("name", "music"), &replacement)
	s.Require().NoError(err)

	got, err := s.coll.ReadOne(s.ctx, docstore.Eq("name", "music"))
	s.Require().NoError(err)
	s.Equal(w.ID, got.ID)
	s.Equal(5, got.Rank)
	s.True(got.DateCreated.Equal(s.now))
}

func (s *CollectionSuite) TestDelete() {
	owner := id.UserID(uuid.New())
	s.create("x", owner, 0)
	s.create("y", owner, 0)
	s.create("z", id.UserID(uuid.New()), 0)

	s.Require().NoError(s.coll.DeleteOne(s.ctx, docstore.Eq("name", "x")))
	s.Require().ErrorIs(s.coll.DeleteOne(s.ctx, docstore.Eq("name", "x")), sentinel.ErrNotFound)

	n, err := s.coll.DeleteMany(s.ctx, docstore.Eq("owner", owner))
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	rest, err := s.coll.ReadMany(s.ctx, docstore.All())
	s.Require().NoError(err)
	s.Len(rest, 1)
}

// TestConcurrentVersionedReplace verifies that racing writers holding the same
// version produce exactly one winner.
func (s *CollectionSuite) TestConcurrentVersionedReplace() {
	w := s.create("race", id.UserID(uuid.New()), 0)
	const goroutines = 20

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			mine := w
			mine.Rank = rank
			err := s.coll.ReplaceIfVersion(s.ctx, &mine)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, sentinel.ErrConflict):
				conflictCount.Add(1)
			}
		}(i + 1)
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load(), "exactly one writer should win")
	s.Equal(int32(goroutines-1), conflictCount.Load())
}

// TestConcurrentUniqueInsert verifies that concurrent inserts of the same unique
// value result in exactly one success.
func (s *CollectionSuite) TestConcurrentUniqueInsert() {
	const goroutines = 30

	var wg sync.WaitGroup
	var successCount, dupCount atomic.Int32
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := widget{Name: "contested", Owner: id.UserID(uuid.New())}
			_, err := s.coll.CreateOne(s.ctx, &w)
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, sentinel.ErrAlreadyUsed):
				dupCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), dupCount.Load())
}
