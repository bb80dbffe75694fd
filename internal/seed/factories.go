package seed

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"inkwell/internal/models"
	"inkwell/internal/security"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// DefaultPassword is the password given to every generated user.
const DefaultPassword = "password123"

// Factory builds users and posts and persists them to the database.
// It is a thin helper used by the seeder and tests.
type Factory struct {
	db    *gorm.DB
	faker *gofakeit.Faker
	seq   int

	// password hash computed once; bcrypt dominates seeding time otherwise
	passwordHash string
}

// NewFactory creates a Factory bound to db. A zero seed picks a random one.
func NewFactory(db *gorm.DB, seed int64) *Factory {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Factory{db: db, faker: gofakeit.New(seed)}
}

// BuildUser returns an unsaved user with unique, valid account fields.
func (f *Factory) BuildUser(overrides ...func(*models.User)) (*models.User, error) {
	if f.passwordHash == "" {
		hash, err := security.HashPassword(DefaultPassword)
		if err != nil {
			return nil, err
		}
		f.passwordHash = hash
	}

	f.seq++
	first, last := f.faker.FirstName(), f.faker.LastName()
	user := &models.User{
		Username:    f.username(first),
		Email:       fmt.Sprintf("%s.%s.%d@%s", strings.ToLower(alnum(first)), strings.ToLower(alnum(last)), f.seq, f.faker.DomainName()),
		PhoneNumber: fmt.Sprintf("%s%04d", f.faker.Numerify("######"), f.seq%10000),
		Password:    f.passwordHash,
		FirstName:   first,
		LastName:    last,
		IsActive:    true,
	}
	for _, override := range overrides {
		override(user)
	}
	return user, nil
}

// CreateUser builds and persists a user.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user, err := f.BuildUser(overrides...)
	if err != nil {
		return nil, err
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// BuildPost returns an unsaved post by author.
func (f *Factory) BuildPost(author *models.User, overrides ...func(*models.BlogPost)) *models.BlogPost {
	body := f.faker.Paragraph(f.faker.Number(1, 3), f.faker.Number(2, 5), 12, "\n\n")
	post := &models.BlogPost{
		Title:    truncate(strings.TrimSuffix(f.faker.Sentence(f.faker.Number(3, 8)), "."), 100),
		Subtitle: truncate(f.faker.HipsterSentence(f.faker.Number(4, 10)), 100),
		Body:     &body,
	}
	if author != nil {
		id := author.ID
		post.AuthorID = &id
	}
	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePost builds and persists a post.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.BlogPost)) (*models.BlogPost, error) {
	post := f.BuildPost(author, overrides...)
	if err := f.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

// username yields an alphanumeric name of 6 to 20 characters.
func (f *Factory) username(first string) string {
	base := alnum(first)
	if len(base) > 12 {
		base = base[:12]
	}
	return fmt.Sprintf("%s%06d", base, f.seq)
}

func alnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
