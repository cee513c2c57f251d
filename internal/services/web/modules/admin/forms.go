package admin

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/api/catalog"
	"github.com/louisbranch/storefront/internal/services/api/storage"
	apperrors "github.com/louisbranch/storefront/internal/services/web/platform/errors"
	"github.com/louisbranch/storefront/internal/services/web/templates"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

func formValue(values url.Values, key string) string {
	return strings.TrimSpace(values.Get(key))
}

func formBool(values url.Values, key string) bool {
	v, _ := strconv.ParseBool(formValue(values, key))
	return v
}

func parseProductForm(values url.Values) templates.ProductForm {
	return templates.ProductForm{
		Name:          formValue(values, "name"),
		Slug:          formValue(values, "slug"),
		Description:   formValue(values, "description"),
		Price:         formValue(values, "price"),
		DiscountPrice: formValue(values, "discountPrice"),
		IsDiscount:    formBool(values, "isDiscount"),
		IsFeature:     formBool(values, "isFeature"),
		IsActive:      formBool(values, "isActive"),
		IsDraft:       formBool(values, "isDraft"),
		CategoryID:    formValue(values, "categoryId"),
		ImageURL:      formValue(values, "imageUrl"),
		Stock:         formValue(values, "stock"),
		IsStock:       formBool(values, "isStock"),
		Variation1:    formValue(values, "variation1"),
		Variation2:    formValue(values, "variation2"),
	}
}

func productForm(p storage.Product) templates.ProductForm {
	form := templates.ProductForm{
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       strconv.FormatFloat(p.Price, 'f', 2, 64),
		IsDiscount:  p.IsDiscount,
		IsFeature:   p.IsFeature,
		IsActive:    p.IsActive,
		IsDraft:     p.IsDraft,
		CategoryID:  p.CategoryID,
		ImageURL:    p.ImageURL,
		Stock:       strconv.Itoa(p.Stock),
		IsStock:     p.IsStock,
		Variation1:  p.Variation1,
		Variation2:  p.Variation2,
	}
	if p.DiscountPrice != nil {
		form.DiscountPrice = strconv.FormatFloat(*p.DiscountPrice, 'f', 2, 64)
	}
	return form
}

// newProductForm is the blank editor: active, stock tracked.
func newProductForm() templates.ProductForm {
	return templates.ProductForm{IsActive: true, IsStock: true, Stock: "0"}
}

func invalidNumber(field string) error {
	return apperrors.EK(apperrors.KindInvalidInput, "admin.invalid_number", field+" is not a valid number")
}

// productInput converts the raw form. Every field is sent so the form is
// the whole truth about the product; a blank discount clears it.
func productInput(form templates.ProductForm) (catalog.ProductInput, error) {
	price, err := strconv.ParseFloat(form.Price, 64)
	if err != nil || price < 0 {
		return catalog.ProductInput{}, invalidNumber("price")
	}
	stock := 0
	if form.Stock != "" {
		if stock, err = strconv.Atoi(form.Stock); err != nil || stock < 0 {
			return catalog.ProductInput{}, invalidNumber("stock")
		}
	}
	slug := form.Slug
	if slug == "" {
		slug = slugify(form.Name)
	}
	in := catalog.ProductInput{
		Name:        &form.Name,
		Slug:        &slug,
		Description: &form.Description,
		Price:       &price,
		IsDiscount:  &form.IsDiscount,
		IsFeature:   &form.IsFeature,
		IsActive:    &form.IsActive,
		IsDraft:     &form.IsDraft,
		CategoryID:  &form.CategoryID,
		ImageURL:    &form.ImageURL,
		Stock:       &stock,
		IsStock:     &form.IsStock,
		Variation1:  &form.Variation1,
		Variation2:  &form.Variation2,
	}
	if form.DiscountPrice == "" {
		in.ClearDiscount = true
	} else {
		discount, err := strconv.ParseFloat(form.DiscountPrice, 64)
		if err != nil || discount < 0 {
			return catalog.ProductInput{}, invalidNumber("discountPrice")
		}
		in.DiscountPrice = &discount
	}
	return in, nil
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// slugify derives a URL slug: accents dropped, lowercase ASCII letters and
// digits, runs of anything else collapsed to one dash.
func slugify(name string) string {
	folded, _, err := transform.String(stripMarks, name)
	if err != nil {
		folded = name
	}
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// parseSettings overlays the settings form onto current, keeping slides.
func parseSettings(values url.Values, current storage.StoreSettings) (storage.StoreSettings, error) {
	next := current
	next.SiteName = formValue(values, "siteName")
	next.SiteDescription = formValue(values, "siteDescription")
	next.Currency = strings.ToUpper(formValue(values, "currency"))
	next.ContactEmail = formValue(values, "contactEmail")
	next.ContactPhone = formValue(values, "contactPhone")
	next.Address = formValue(values, "address")
	for field, dst := range map[string]*float64{
		"freeShippingThreshold": &next.FreeShippingThreshold,
		"standardShippingFee":   &next.StandardShippingFee,
		"taxRate":               &next.TaxRate,
	} {
		raw := formValue(values, field)
		if raw == "" {
			*dst = 0
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return current, invalidNumber(field)
		}
		*dst = v
	}
	return next, nil
}

// parseSlides reads the slide editor's parallel field lists. Checked
// "remove" boxes carry the index of the slide to drop, and a trailing
// blank slide is ignored.
func parseSlides(values url.Values) []storage.Slide {
	ids := values["id"]
	field := func(key string, i int) string {
		list := values[key]
		if i < len(list) {
			return strings.TrimSpace(list[i])
		}
		return ""
	}
	removed := map[int]bool{}
	for _, raw := range values["remove"] {
		if i, err := strconv.Atoi(raw); err == nil {
			removed[i] = true
		}
	}
	slides := make([]storage.Slide, 0, len(ids))
	for i := range ids {
		if removed[i] {
			continue
		}
		slide := storage.Slide{
			ID:          field("id", i),
			Title:       field("title", i),
			Subtitle:    field("subtitle", i),
			Description: field("description", i),
			ButtonText:  field("buttonText", i),
			ButtonLink:  field("buttonLink", i),
			ImageURL:    field("imageUrl", i),
		}
		slide.IsActive, _ = strconv.ParseBool(field("isActive", i))
		if slide.ID == "" && slide.Title == "" && slide.ImageURL == "" {
			continue
		}
		slides = append(slides, slide)
	}
	return slides
}

// orderFilter builds the listing filter for one status, or none.
func orderFilter(status string) (string, string) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if !slices.Contains(storage.OrderStatuses, storage.OrderStatus(status)) {
		return "", ""
	}
	return status, `status = "` + status + `"`
}

// assignableRoles lists the roles actor may give a profile holding
// current. The current role is always listed so the form round-trips.
func assignableRoles(actor, current access.Role) []string {
	var roles []string
	for _, role := range []access.Role{access.RoleClient, access.RoleAdmin, access.RoleSuperadmin} {
		if role == current || access.CanAssignRole(actor, current, role) {
			roles = append(roles, string(role))
		}
	}
	return roles
}
