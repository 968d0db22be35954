package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

type (
	// Kind discriminates the two transaction variants.
	Kind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// User is an account holder. PasswordHash never leaves the backend.
	User struct {
		ID              int64
		FullName        string
		Email           string
		PasswordHash    string
		ProfileImageURL string
		CreatedAt       time.Time
		UpdatedAt       time.Time
	}

	// Transaction is a single income or expense record owned by one user.
	// Label holds the income source or the expense category depending on Kind.
	Transaction struct {
		ID        int64
		UserID    int64
		Kind      Kind
		Label     string
		Icon      string
		Amount    Money
		Date      Date
		CreatedAt time.Time
		UpdatedAt time.Time
	}
)

var (
	ErrInvalidKind   = errors.New("invalid transaction kind")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyLabel    = errors.New("empty category or source")
)

func (k Kind) Validate() error {
	switch k {
	case KindIncome, KindExpense:
		return nil
	}
	return ErrInvalidKind
}

// LabelField returns the JSON field name for the label of this kind.
func (k Kind) LabelField() string {
	if k == KindIncome {
		return "source"
	}
	return "category"
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// UnmarshalJSON accepts both "2006-01-02" and RFC 3339 timestamps.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDate
	}
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return ErrInvalidDate
	}
	d.Time = t
	return nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Kind.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Label)) == 0 {
		return ErrEmptyLabel
	}
	if len(t.Label) > 200 {
		return errors.New("category or source too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	return t.Date.Validate()
}

// MarshalJSON emits the label under "source" for income and "category" for
// expense, matching the wire format list views expect.
func (t Transaction) MarshalJSON() ([]byte, error) {
	return t.encode("")
}

// TypedTransaction is a Transaction tagged with its kind for merged feeds.
type TypedTransaction struct {
	Transaction
	Type string
}

func Typed(t Transaction) TypedTransaction {
	return TypedTransaction{Transaction: t, Type: string(t.Kind)}
}

func (t TypedTransaction) MarshalJSON() ([]byte, error) {
	return t.Transaction.encode(t.Type)
}

func (t Transaction) encode(typeTag string) ([]byte, error) {
	type base struct {
		ID        int64     `json:"id"`
		UserID    int64     `json:"userId"`
		Icon      string    `json:"icon,omitempty"`
		Amount    Money     `json:"amount"`
		Date      Date      `json:"date"`
		Type      string    `json:"type,omitempty"`
		CreatedAt time.Time `json:"createdAt"`
		UpdatedAt time.Time `json:"updatedAt"`
	}
	b := base{
		ID:        t.ID,
		UserID:    t.UserID,
		Icon:      t.Icon,
		Amount:    t.Amount,
		Date:      t.Date,
		Type:      typeTag,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Kind == KindIncome {
		return json.Marshal(struct {
			base
			Source string `json:"source"`
		}{base: b, Source: t.Label})
	}
	return json.Marshal(struct {
		base
		Category string `json:"category"`
	}{base: b, Category: t.Label})
}

// PublicUser is the password-free view of a User returned by the API.
type PublicUser struct {
	ID              int64     `json:"id"`
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:              u.ID,
		FullName:        u.FullName,
		Email:           u.Email,
		ProfileImageURL: u.ProfileImageURL,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}
