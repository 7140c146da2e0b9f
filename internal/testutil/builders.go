package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/quillworks/quill-api/internal/domain/model"
)

var fixtureSeq atomic.Int64

// AccountBuilder provides a fluent interface for building account fixtures.
// Each builder starts from a unique handle and contact address so fixtures
// never collide on the unique constraints.
type AccountBuilder struct {
	account model.Account
}

// NewAccount creates an AccountBuilder with sensible defaults.
func NewAccount() *AccountBuilder {
	n := fixtureSeq.Add(1)
	return &AccountBuilder{account: model.Account{
		Handle:         fmt.Sprintf("writer%06d", n),
		ContactAddress: fmt.Sprintf("writer%06d@example.com", n),
		Verifier:       "$2a$04$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
	}}
}

// WithHandle sets the handle.
func (b *AccountBuilder) WithHandle(handle string) *AccountBuilder {
	b.account.Handle = handle
	return b
}

// WithAddress sets the contact address.
func (b *AccountBuilder) WithAddress(address string) *AccountBuilder {
	b.account.ContactAddress = address
	return b
}

// WithVerifier sets the credential verifier.
func (b *AccountBuilder) WithVerifier(verifier string) *AccountBuilder {
	b.account.Verifier = verifier
	return b
}

// AsAdmin marks the account as an administrator.
func (b *AccountBuilder) AsAdmin() *AccountBuilder {
	b.account.IsAdmin = true
	return b
}

// Build returns the account.
func (b *AccountBuilder) Build() model.Account {
	return b.account
}

// PostBuilder provides a fluent interface for building post fixtures.
type PostBuilder struct {
	post model.Post
}

// NewPost creates a PostBuilder with sensible defaults. OwnerID must be set
// before inserting.
func NewPost() *PostBuilder {
	n := fixtureSeq.Add(1)
	title := fmt.Sprintf("Fixture Post %06d", n)
	return &PostBuilder{post: model.Post{
		Title:   title,
		Slug:    model.Slugify(title),
		Content: "Fixture content long enough to pass validation.",
	}}
}

// WithOwner sets the owning account id.
func (b *PostBuilder) WithOwner(ownerID string) *PostBuilder {
	b.post.OwnerID = ownerID
	return b
}

// WithTitle sets the title and regenerates the slug.
func (b *PostBuilder) WithTitle(title string) *PostBuilder {
	b.post.Title = title
	b.post.Slug = model.Slugify(title)
	return b
}

// WithCategory sets the category.
func (b *PostBuilder) WithCategory(category string) *PostBuilder {
	b.post.Category = category
	return b
}

// Build returns the post.
func (b *PostBuilder) Build() model.Post {
	return b.post
}
