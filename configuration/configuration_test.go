package configuration

import (
	"os"
	"path"
	"testing"

	"github.com/fulldump/biff"
)

func TestLoadEnv(t *testing.T) {

	biff.Alternative("Load env", func(a *biff.A) {

		c := Default()
		biff.AssertEqual(c.Backend, "local")

		a.Alternative("Missing file keeps defaults", func(a *biff.A) {
			t.Setenv("MONGO_URI", "")
			LoadEnv(&c, path.Join(t.TempDir(), "missing.env"))
			biff.AssertEqual(c.MongoUri, "mongodb://localhost:27017")
		})

		a.Alternative("MONGO_URI from file", func(a *biff.A) {
			t.Setenv("MONGO_URI", "")
			os.Unsetenv("MONGO_URI")
			filename := path.Join(t.TempDir(), ".env")
			biff.AssertNil(os.WriteFile(filename, []byte("MONGO_URI=mongodb://db:27017\n"), 0666))

			LoadEnv(&c, filename)
			biff.AssertEqual(c.MongoUri, "mongodb://db:27017")
		})
	})
}
