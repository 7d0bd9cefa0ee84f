// Package paprika is a client for the Paprika recipe manager sync API (v2).
//
// It authenticates a user, lists recipe identifiers with their content
// hashes, fetches categories and full recipe records, and uploads recipes
// using the gzip-in-multipart encoding the service requires.
package paprika

import (
	"github.com/google/uuid"

	"github.com/starford/paprika/internal/checksum"
)

// Recipe is a full recipe record as stored by the service.
//
// Field order is the wire order and feeds the content hash, so it must not
// change. Text fields decode JSON null as "".
type Recipe struct {
	UID             string   `json:"uid" yaml:"uid,omitempty"`
	Name            string   `json:"name" yaml:"name"`
	Ingredients     string   `json:"ingredients" yaml:"ingredients,omitempty"`
	Directions      string   `json:"directions" yaml:"directions,omitempty"`
	Description     string   `json:"description" yaml:"description,omitempty"`
	Notes           string   `json:"notes" yaml:"notes,omitempty"`
	NutritionalInfo string   `json:"nutritional_info" yaml:"nutritional_info,omitempty"`
	Servings        string   `json:"servings" yaml:"servings,omitempty"`
	Difficulty      string   `json:"difficulty" yaml:"difficulty,omitempty"`
	PrepTime        string   `json:"prep_time" yaml:"prep_time,omitempty"`
	CookTime        string   `json:"cook_time" yaml:"cook_time,omitempty"`
	TotalTime       string   `json:"total_time" yaml:"total_time,omitempty"`
	Source          string   `json:"source" yaml:"source,omitempty"`
	SourceURL       *string  `json:"source_url" yaml:"source_url,omitempty"`
	ImageURL        *string  `json:"image_url" yaml:"image_url,omitempty"`
	Photo           *string  `json:"photo" yaml:"photo,omitempty"`
	PhotoHash       *string  `json:"photo_hash" yaml:"photo_hash,omitempty"`
	PhotoLarge      *string  `json:"photo_large" yaml:"photo_large,omitempty"`
	Scale           *string  `json:"scale" yaml:"scale,omitempty"`
	Hash            string   `json:"hash" yaml:"hash,omitempty"`
	Categories      []string `json:"categories" yaml:"categories,omitempty"`
	Rating          int      `json:"rating" yaml:"rating,omitempty"`
	InTrash         bool     `json:"in_trash" yaml:"in_trash,omitempty"`
	IsPinned        bool     `json:"is_pinned" yaml:"is_pinned,omitempty"`
	OnFavorites     bool     `json:"on_favorites" yaml:"on_favorites,omitempty"`
	OnGroceryList   bool     `json:"on_grocery_list" yaml:"on_grocery_list,omitempty"`
	Created         string   `json:"created" yaml:"created,omitempty"`
	PhotoURL        *string  `json:"photo_url" yaml:"photo_url,omitempty"`
}

// RecipeEntry is one row of the sync listing: enough to tell whether a
// locally cached copy of the recipe is stale.
type RecipeEntry struct {
	UID  string `json:"uid" yaml:"uid"`
	Hash string `json:"hash" yaml:"hash"`
}

// Category is a recipe category. Categories form a tree through ParentUID.
type Category struct {
	UID       string  `json:"uid" yaml:"uid"`
	OrderFlag int     `json:"order_flag" yaml:"order_flag"`
	Name      string  `json:"name" yaml:"name"`
	ParentUID *string `json:"parent_uid" yaml:"parent_uid,omitempty"`
}

// Token is the bearer credential returned by Login.
type Token struct {
	Token string `json:"token"`
}

// ComputeHash returns the hex-encoded SHA-256 digest of the record's
// canonical JSON encoding. The digest is taken with the hash field cleared,
// so it does not depend on a previously stored hash.
func (r Recipe) ComputeHash() string {
	r.Hash = ""
	if r.Categories == nil {
		r.Categories = []string{}
	}
	// A Recipe has no field type that can fail to encode.
	sum, _ := checksum.JSON(r)
	return sum
}

// EnsureIdentity assigns a random (v4) UUID when the record has no uid yet.
// Records that already carry a uid are left alone.
func (r *Recipe) EnsureIdentity() {
	if r.UID == "" {
		r.UID = uuid.NewString()
	}
}

// Stamp prepares a record for upload: it assigns a uid if needed and
// recomputes the content hash. Read-only paths must not call it.
func (r *Recipe) Stamp() {
	r.EnsureIdentity()
	if r.Categories == nil {
		r.Categories = []string{}
	}
	r.Hash = r.ComputeHash()
}

// Entry returns the listing row describing r.
func (r Recipe) Entry() RecipeEntry {
	return RecipeEntry{UID: r.UID, Hash: r.Hash}
}
