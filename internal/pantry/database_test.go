package pantry

import (
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("BoltDB", func() {
	var db *BoltDB

	BeforeEach(func() {
		var err error
		db, err = NewBoltDB(filepath.Join(GinkgoT().TempDir(), "test.db"))
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		Expect(db.Close()).To(Succeed())
	})

	Describe("items", func() {
		var item *Item

		BeforeEach(func() {
			item = &Item{
				ID:        "item-1",
				ItemName:  "Milk",
				Quantity:  2,
				OwnerID:   "owner-1",
				CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
				UpdatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
			}
		})

		It("should round-trip an item", func() {
			Expect(db.SaveItem(item)).To(Succeed())

			got, err := db.GetItem("item-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(item))
		})

		It("should return ErrNotFound for a missing item", func() {
			_, err := db.GetItem("missing")
			Expect(err).To(MatchError(ErrNotFound))
		})

		It("should delete an item", func() {
			Expect(db.SaveItem(item)).To(Succeed())
			Expect(db.DeleteItem("item-1")).To(Succeed())

			_, err := db.GetItem("item-1")
			Expect(err).To(MatchError(ErrNotFound))
		})

		Describe("ListItemsByOwner", func() {
			BeforeEach(func() {
				Expect(db.SaveItem(&Item{ID: "a", ItemName: "Milk", OwnerID: "owner-1"})).To(Succeed())
				Expect(db.SaveItem(&Item{ID: "b", ItemName: "Eggs", OwnerID: "owner-1"})).To(Succeed())
				Expect(db.SaveItem(&Item{ID: "c", ItemName: "Rice", OwnerID: "owner-2"})).To(Succeed())
			})

			It("should return only the owner's items", func() {
				items, err := db.ListItemsByOwner("owner-1")
				Expect(err).NotTo(HaveOccurred())
				Expect(items).To(HaveLen(2))
				for _, item := range items {
					Expect(item.OwnerID).To(Equal("owner-1"))
				}
			})

			It("should return an empty slice for an owner with no items", func() {
				items, err := db.ListItemsByOwner("owner-3")
				Expect(err).NotTo(HaveOccurred())
				Expect(items).NotTo(BeNil())
				Expect(items).To(BeEmpty())
			})
		})
	})

	Describe("users", func() {
		It("should find a saved user by email", func() {
			user := &User{ID: "u1", FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", PasswordHash: "hash"}
			Expect(db.SaveUser(user)).To(Succeed())

			got, err := db.GetUserByEmail("ada@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal("u1"))
			Expect(got.PasswordHash).To(Equal("hash"))
		})

		It("should return ErrNotFound for an unknown email", func() {
			_, err := db.GetUserByEmail("nobody@example.com")
			Expect(err).To(MatchError(ErrNotFound))
		})
	})

	Describe("favorites", func() {
		It("should round-trip favorites", func() {
			favorites := &Favorites{OwnerID: "owner-1", RecipeIDs: []string{"r1", "r2"}}
			Expect(db.SaveFavorites(favorites)).To(Succeed())

			got, err := db.GetFavorites("owner-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(favorites))
		})

		It("should return ErrNotFound for an owner with no favorites", func() {
			_, err := db.GetFavorites("owner-1")
			Expect(err).To(MatchError(ErrNotFound))
		})
	})
})
