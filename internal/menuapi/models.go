package menuapi

import (
	"bytes"
	"encoding/json"
	"strings"
)

// The menu API has gone through several backend revisions and the field
// names are not stable: ids arrive as "_id" or "id" (string or number),
// products name their title "title" or "name", and the category reference
// is sometimes an embedded object, sometimes a bare id string, sometimes
// missing. The models below accept all observed shapes.

type Store struct {
	ID          string
	Name        string
	Description string
	Address     string
	Phone       string
	Email       string
	Social      map[string]string
}

func (s *Store) UnmarshalJSON(b []byte) error {
	var aux struct {
		MongoID     flexString `json:"_id"`
		ID          flexString `json:"id"`
		Name        string     `json:"name"`
		Description string     `json:"description"`
		Address     string     `json:"address"`
		Phone       string     `json:"phone"`
		Email       string     `json:"email"`
		Facebook    string     `json:"facebookUrl"`
		Instagram   string     `json:"instagramUrl"`
		Telegram    string     `json:"telegramUrl"`
		TikTok      string     `json:"tiktokUrl"`
		WhatsApp    string     `json:"whatsappUrl"`
		Website     string     `json:"websiteUrl"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	s.ID = firstNonEmpty(string(aux.MongoID), string(aux.ID))
	s.Name = aux.Name
	s.Description = aux.Description
	s.Address = aux.Address
	s.Phone = aux.Phone
	s.Email = aux.Email

	s.Social = map[string]string{}
	for platform, url := range map[string]string{
		"Facebook":  aux.Facebook,
		"Instagram": aux.Instagram,
		"Telegram":  aux.Telegram,
		"TikTok":    aux.TikTok,
		"WhatsApp":  aux.WhatsApp,
		"Website":   aux.Website,
	} {
		if strings.HasPrefix(url, "http") {
			s.Social[platform] = url
		}
	}
	return nil
}

type Category struct {
	ID   string
	Name string
}

func (c *Category) UnmarshalJSON(b []byte) error {
	var aux struct {
		MongoID flexString `json:"_id"`
		ID      flexString `json:"id"`
		Name    string     `json:"name"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	c.ID = firstNonEmpty(string(aux.MongoID), string(aux.ID))
	c.Name = aux.Name
	return nil
}

// Product keeps every candidate field raw; display fallbacks are applied by
// menu.Normalize so the precedence rules live in one place.
type Product struct {
	ID          string
	Title       string
	Name        string
	Price       any // string, float64 or nil
	Description string
	Desc        string
	IsAvailable *bool
	Image       string
	ImageURL    string
	ImageSnake  string
	Photo       string
	Category    CategoryRef
}

func (p *Product) UnmarshalJSON(b []byte) error {
	var aux struct {
		MongoID     flexString  `json:"_id"`
		ID          flexString  `json:"id"`
		Title       string      `json:"title"`
		Name        string      `json:"name"`
		Price       any         `json:"price"`
		Description string      `json:"description"`
		Desc        string      `json:"desc"`
		IsAvailable *bool       `json:"isAvailable"`
		Image       string      `json:"image"`
		ImageURL    string      `json:"imageUrl"`
		ImageSnake  string      `json:"image_url"`
		Photo       string      `json:"photo"`
		Category    CategoryRef `json:"category"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	p.ID = firstNonEmpty(string(aux.MongoID), string(aux.ID))
	p.Title = aux.Title
	p.Name = aux.Name
	p.Price = aux.Price
	p.Description = aux.Description
	p.Desc = aux.Desc
	p.IsAvailable = aux.IsAvailable
	p.Image = aux.Image
	p.ImageURL = aux.ImageURL
	p.ImageSnake = aux.ImageSnake
	p.Photo = aux.Photo
	p.Category = aux.Category
	return nil
}

// CategoryRef is the product→category reference in any of its upstream
// shapes: embedded object, bare string, or absent.
type CategoryRef struct {
	ID   string // from the object form
	Name string // from the object form
	Raw  string // the bare-string form, meaning unknown (id or name)
}

func (r CategoryRef) Empty() bool {
	return r.ID == "" && r.Name == "" && r.Raw == ""
}

func (r *CategoryRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*r = CategoryRef{}
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*r = CategoryRef{Raw: s}
		return nil
	}
	var aux struct {
		MongoID flexString `json:"_id"`
		ID      flexString `json:"id"`
		Name    string     `json:"name"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*r = CategoryRef{ID: firstNonEmpty(string(aux.MongoID), string(aux.ID)), Name: aux.Name}
	return nil
}

// flexString accepts a JSON string or number and keeps it as a string.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	*f = flexString(b)
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
