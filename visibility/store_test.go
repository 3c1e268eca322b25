package visibility

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/fulldump/biff"
	"go.uber.org/zap"
)

type brokenStorage struct{}

func (brokenStorage) Get(key string) (string, bool, error) {
	return "", false, errors.New("disk on fire")
}

func (brokenStorage) Set(key, value string) error {
	return errors.New("disk on fire")
}

func TestStore(t *testing.T) {

	biff.Alternative("Store", func(a *biff.A) {
		defaults := []string{"_id", "name", "country", "founded"}

		a.Alternative("Missing value returns defaults", func(a *biff.A) {
			s := NewStore(NewMemoryStorage(), zap.NewNop())
			biff.AssertEqual(s.Load("brands", defaults), defaults)
		})

		a.Alternative("Save then load intersects in defaults order", func(a *biff.A) {
			storage := NewMemoryStorage()
			s := NewStore(storage, zap.NewNop())
			s.Save("brands", []string{"country", "ghost", "_id"})

			raw, found, err := storage.Get("cs_cols_brands")
			biff.AssertNil(err)
			biff.AssertTrue(found)
			biff.AssertEqual(raw, `["country","ghost","_id"]`)

			biff.AssertEqual(s.Load("brands", defaults), []string{"_id", "country"})
		})

		a.Alternative("Empty intersection returns defaults", func(a *biff.A) {
			s := NewStore(NewMemoryStorage(), zap.NewNop())
			s.Save("brands", []string{"ghost"})
			biff.AssertEqual(s.Load("brands", defaults), defaults)
		})

		a.Alternative("Corrupted value returns defaults", func(a *biff.A) {
			storage := NewMemoryStorage()
			storage.Set("cs_cols_brands", "{not json")
			s := NewStore(storage, zap.NewNop())
			biff.AssertEqual(s.Load("brands", defaults), defaults)
		})

		a.Alternative("Broken storage returns defaults", func(a *biff.A) {
			s := NewStore(brokenStorage{}, zap.NewNop())
			s.Save("brands", []string{"_id"})
			biff.AssertEqual(s.Load("brands", defaults), defaults)
		})

		a.Alternative("Defaults are not aliased", func(a *biff.A) {
			s := NewStore(nil, nil)
			loaded := s.Load("brands", defaults)
			loaded[0] = "changed"
			biff.AssertEqual(defaults[0], "_id")
		})
	})
}

func TestSQLiteStorage(t *testing.T) {

	filename := filepath.Join(t.TempDir(), "visibility.db")

	storage, err := OpenSQLite(filename)
	biff.AssertNil(err)

	_, found, err := storage.Get("cs_cols_users")
	biff.AssertNil(err)
	biff.AssertFalse(found)

	s := NewStore(storage, zap.NewNop())
	s.Save("users", []string{"email", "username"})
	s.Save("users", []string{"username"})
	biff.AssertNil(storage.Close())

	reopened, err := OpenSQLite(filename)
	biff.AssertNil(err)
	defer reopened.Close()

	loaded := NewStore(reopened, zap.NewNop()).Load("users", []string{"_id", "username", "email"})
	biff.AssertEqual(loaded, []string{"username"})
}
