package storage_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/storage"
)

func tmpFiles(dir string) []string {
	entries, err := os.ReadDir(dir)
	Expect(err).NotTo(HaveOccurred())
	var out []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			out = append(out, e.Name())
		}
	}
	return out
}

var _ = Describe("Store", func() {
	var (
		dir   string
		store *storage.Store
		world *physics.World
	)

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "gravbox-saves-*")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)

		store = storage.New(filepath.Join(dir, "saves"), nil)
		world = physics.DefaultWorld(physics.DefaultWidth, physics.DefaultHeight)
		world.TimePassed = 42.5
	})

	Describe("Save and Load", func() {
		It("round-trips a scene", func() {
			Expect(store.Save("solar", world)).To(Succeed())

			loaded, err := store.Load("solar")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.TimePassed).To(Equal(42.5))
			Expect(loaded.Bodies).To(HaveLen(len(world.Bodies)))
			for i, b := range world.Bodies {
				Expect(*loaded.Bodies[i]).To(Equal(*b))
			}
		})

		It("creates the saves directory on demand", func() {
			Expect(store.Save("first", world)).To(Succeed())
			Expect(filepath.Join(dir, "saves", "first"+storage.Ext)).To(BeARegularFile())
		})

		It("overwrites an existing save", func() {
			Expect(store.Save("solar", world)).To(Succeed())
			world.TimePassed = 7
			Expect(store.Save("solar", world)).To(Succeed())

			loaded, err := store.Load("solar")
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.TimePassed).To(Equal(7.0))
		})

		It("leaves no temporary files after a failed save", func() {
			Expect(store.Init()).To(Succeed())
			// a directory in the way makes the final rename fail
			Expect(os.Mkdir(filepath.Join(store.Dir(), "blocked"+storage.Ext), 0755)).To(Succeed())

			Expect(store.Save("blocked", world)).NotTo(Succeed())
			Expect(tmpFiles(store.Dir())).To(BeEmpty())
		})

		It("reports a missing save", func() {
			_, err := store.Load("nothing")
			Expect(err).To(MatchError(storage.ErrNotFound))
		})

		It("rejects a malformed file", func() {
			Expect(store.Init()).To(Succeed())
			path := filepath.Join(store.Dir(), "broken"+storage.Ext)
			Expect(os.WriteFile(path, []byte("SPACE\ntick time:abc\n--------------------\n"), 0644)).To(Succeed())

			_, err := store.Load("broken")
			Expect(err).To(HaveOccurred())
			Expect(err).NotTo(MatchError(storage.ErrNotFound))
		})

		It("keeps the current world when LoadInto fails", func() {
			before := world.Clone()
			Expect(store.LoadInto("nothing", world)).NotTo(Succeed())
			Expect(world.Bodies).To(HaveLen(len(before.Bodies)))
			Expect(world.TimePassed).To(Equal(before.TimePassed))
		})

		It("replaces the world on LoadInto", func() {
			other := physics.NewWorld(2, physics.NewBody(geom.Vec(1, 2), 5, "solo"))
			Expect(store.Save("solo", other)).To(Succeed())

			Expect(store.LoadInto("solo", world)).To(Succeed())
			Expect(world.Bodies).To(HaveLen(1))
			Expect(world.Bodies[0].Name).To(Equal("solo"))
			Expect(world.TickTime).To(Equal(2.0))
		})
	})

	DescribeTable("name validation",
		func(name string) {
			Expect(store.Save(name, world)).To(MatchError(storage.ErrInvalidName))
		},
		Entry("empty", ""),
		Entry("dot", "."),
		Entry("parent", ".."),
		Entry("hidden", ".hidden"),
		Entry("slash", "a/b"),
		Entry("backslash", `a\b`),
		Entry("reserved char", "what?"),
		Entry("too long", strings.Repeat("x", storage.MaxNameLen+1)),
		Entry("padded", " pad "),
	)

	Describe("List", func() {
		It("is empty before anything is saved", func() {
			saves, err := store.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(saves).To(BeEmpty())
		})

		It("returns sorted names and skips foreign files", func() {
			for _, name := range []string{"zeta", "alpha", "mid"} {
				Expect(store.Save(name, world)).To(Succeed())
			}
			Expect(os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("x"), 0644)).To(Succeed())
			Expect(os.WriteFile(filepath.Join(store.Dir(), ".x-1.tmp"), []byte("x"), 0644)).To(Succeed())

			names, err := store.Names()
			Expect(err).NotTo(HaveOccurred())
			Expect(names).To(Equal([]string{"alpha", "mid", "zeta"}))

			saves, err := store.List()
			Expect(err).NotTo(HaveOccurred())
			Expect(saves[0].Size).To(BeNumerically(">", 0))
		})
	})

	Describe("Delete", func() {
		It("removes a save", func() {
			Expect(store.Save("gone", world)).To(Succeed())
			Expect(store.Exists("gone")).To(BeTrue())
			Expect(store.Delete("gone")).To(Succeed())
			Expect(store.Exists("gone")).To(BeFalse())
		})

		It("reports a missing save", func() {
			Expect(store.Delete("gone")).To(MatchError(storage.ErrNotFound))
		})
	})

	Describe("Autosave", func() {
		It("uses the reserved name", func() {
			Expect(store.Autosave(world)).To(Succeed())
			Expect(store.Exists(storage.AutosaveName)).To(BeTrue())

			loaded, err := store.LoadAutosave()
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.Bodies).To(HaveLen(2))
		})
	})
})
