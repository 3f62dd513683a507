package menu

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/menuqrcode/menubot/internal/menuapi"
)

const (
	// UnnamedProduct labels products whose record carries no usable title.
	UnnamedProduct = "Unnamed Product"

	// DefaultStoreName is shown when the store record is unavailable.
	DefaultStoreName = "Our Store"

	maxDescriptionRunes = 100
)

// DisplayProduct is the canonical record rendered to chat, produced from the
// heterogeneous upstream shapes by Normalize.
type DisplayProduct struct {
	ID          string
	Title       string
	Price       any
	Description string
	Available   bool
	ImageURL    string
}

// Normalize applies the display fallback rules: title falls back to name,
// then to UnnamedProduct; description falls back to desc; availability
// defaults to true; the image URL is the first candidate that looks like an
// http(s) URL.
func Normalize(p menuapi.Product) DisplayProduct {
	title := p.Title
	if title == "" {
		title = p.Name
	}
	if title == "" {
		title = UnnamedProduct
	}

	desc := p.Description
	if desc == "" {
		desc = p.Desc
	}

	var image string
	for _, candidate := range []string{p.Image, p.ImageURL, p.ImageSnake, p.Photo} {
		if strings.HasPrefix(candidate, "http") {
			image = candidate
			break
		}
	}

	return DisplayProduct{
		ID:          p.ID,
		Title:       title,
		Price:       p.Price,
		Description: desc,
		Available:   p.IsAvailable == nil || *p.IsAvailable,
		ImageURL:    image,
	}
}

// RenderCaption produces the single-product chat block: availability glyph,
// bold title, optional price suffix, then the description on its own line.
func RenderCaption(p DisplayProduct) string {
	glyph := "✅"
	if !p.Available {
		glyph = "❌"
	}

	var b strings.Builder
	b.WriteString(glyph)
	b.WriteString(" *")
	b.WriteString(p.Title)
	b.WriteString("*")
	if price := FormatPrice(p.Price); price != "" {
		b.WriteString(" - ")
		b.WriteString(price)
	}
	if p.Description != "" {
		b.WriteString("\n")
		b.WriteString(truncate(p.Description, maxDescriptionRunes))
	}
	return b.String()
}

// FormatPrice renders the raw upstream price value. Strings pass through,
// numbers drop insignificant zeros, absent prices render empty.
func FormatPrice(v any) string {
	switch p := v.(type) {
	case nil:
		return ""
	case string:
		return p
	case float64:
		return strconv.FormatFloat(p, 'f', -1, 64)
	default:
		return fmt.Sprint(p)
	}
}

// CategoryMatches reports whether a product belongs to a category. The
// reference shape drifts upstream, so three rules apply in order: embedded
// object id equality, bare string equal to the category id, bare string
// equal to the category name (case-insensitive).
func CategoryMatches(c menuapi.Category, p menuapi.Product) bool {
	ref := p.Category
	if ref.Empty() {
		return false
	}
	if ref.ID != "" && ref.ID == c.ID {
		return true
	}
	if ref.Raw != "" {
		if ref.Raw == c.ID {
			return true
		}
		if strings.EqualFold(ref.Raw, c.Name) {
			return true
		}
	}
	return false
}

// FindCategory locates a category by id or case-insensitive name.
func FindCategory(cats []menuapi.Category, nameOrID string) *menuapi.Category {
	for i := range cats {
		if cats[i].ID == nameOrID || strings.EqualFold(cats[i].Name, nameOrID) {
			return &cats[i]
		}
	}
	return nil
}

// FilterByCategory returns the products matching a category.
func FilterByCategory(c menuapi.Category, products []menuapi.Product) []menuapi.Product {
	var matched []menuapi.Product
	for _, p := range products {
		if CategoryMatches(c, p) {
			matched = append(matched, p)
		}
	}
	return matched
}

// OrderByCategory regroups products so items of the same category sit
// together, groups in first-appearance order, items in upstream order within
// a group. Unreferenced products land in a trailing "Uncategorized" group.
func OrderByCategory(products []menuapi.Product) []menuapi.Product {
	groupIdx := map[string]int{}
	var groups [][]menuapi.Product
	for _, p := range products {
		key := categoryKey(p.Category)
		i, ok := groupIdx[key]
		if !ok {
			i = len(groups)
			groupIdx[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], p)
	}

	ordered := make([]menuapi.Product, 0, len(products))
	for _, g := range groups {
		ordered = append(ordered, g...)
	}
	return ordered
}

func categoryKey(ref menuapi.CategoryRef) string {
	for _, k := range []string{ref.Name, ref.Raw, ref.ID} {
		if k != "" {
			return k
		}
	}
	return "Uncategorized"
}

// StoreName returns the display name for a possibly-missing store record.
func StoreName(s *menuapi.Store) string {
	if s != nil && s.Name != "" {
		return s.Name
	}
	return DefaultStoreName
}

// RenderStoreInfo renders the store details block, omitting absent fields.
// Social links appear on one line, platforms in alphabetical order.
func RenderStoreInfo(s *menuapi.Store) string {
	var b strings.Builder
	b.WriteString("🏪 *")
	b.WriteString(StoreName(s))
	b.WriteString("*\n")
	if s == nil {
		return strings.TrimRight(b.String(), "\n")
	}

	if s.Description != "" {
		b.WriteString("📝 " + s.Description + "\n")
	}
	if s.Address != "" {
		b.WriteString("📍 " + s.Address + "\n")
	}
	if s.Phone != "" {
		b.WriteString("📞 " + s.Phone + "\n")
	}
	if s.Email != "" {
		b.WriteString("✉️ " + s.Email + "\n")
	}

	if len(s.Social) > 0 {
		platforms := make([]string, 0, len(s.Social))
		for p := range s.Social {
			platforms = append(platforms, p)
		}
		sort.Strings(platforms)

		links := make([]string, 0, len(platforms))
		for _, p := range platforms {
			links = append(links, p+": "+s.Social[p])
		}
		b.WriteString("🔗 " + strings.Join(links, " | "))
	}

	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
