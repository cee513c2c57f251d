package catalog

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/platform/requestctx"
	"github.com/louisbranch/storefront/internal/services/api/access"
	"github.com/louisbranch/storefront/internal/services/api/storage"
)

// ImportColumns is the CSV header accepted by Import, in order.
var ImportColumns = []string{
	"name", "slug", "description", "price", "discount_price", "is_discount",
	"is_feature", "category_slug", "image_url", "stock", "variation1", "variation2",
}

// MaxImportRows bounds one import.
const MaxImportRows = 1000

// Import row outcomes.
const (
	ImportCreated = "created"
	ImportUpdated = "updated"
	ImportFailed  = "failed"
)

// ImportResult reports the outcome for one CSV data row.
type ImportResult struct {
	Line   int    `json:"line"`
	Slug   string `json:"slug"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ImportSummary aggregates an import run.
type ImportSummary struct {
	Created int            `json:"created"`
	Updated int            `json:"updated"`
	Failed  int            `json:"failed"`
	Results []ImportResult `json:"results"`
}

// Template returns a CSV template with the header and one sample row.
func Template() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(ImportColumns)
	_ = w.Write([]string{
		"Linen Shirt", "linen-shirt", "Breathable summer shirt", "79.90", "59.90", "true",
		"false", "shirts", "https://example.com/linen.jpg", "25", "S,M,L", "White,Blue",
	})
	w.Flush()
	return buf.Bytes()
}

func csvInvalid(message string) error {
	return apperrors.New(apperrors.CodeCSVInvalid, message)
}

// Import creates or updates products from CSV, matching rows by slug.
// Header problems abort the import; row problems are reported per row.
func (s *Service) Import(ctx context.Context, caller requestctx.User, r io.Reader) (ImportSummary, error) {
	if err := s.ready(); err != nil {
		return ImportSummary{}, err
	}
	if err := access.RequireStaff(caller); err != nil {
		return ImportSummary{}, err
	}

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return ImportSummary{}, csvInvalid("CSV file is empty")
	}
	if err != nil {
		return ImportSummary{}, csvInvalid(fmt.Sprintf("read header: %v", err))
	}
	index, err := headerIndex(header)
	if err != nil {
		return ImportSummary{}, err
	}

	categories, err := s.categorySlugs(ctx)
	if err != nil {
		return ImportSummary{}, err
	}

	summary := ImportSummary{Results: []ImportResult{}}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if line-1 > MaxImportRows {
			return summary, csvInvalid(fmt.Sprintf("CSV exceeds %d rows", MaxImportRows))
		}
		if err != nil {
			summary.add(ImportResult{Line: line, Status: ImportFailed, Error: err.Error()})
			continue
		}
		summary.add(s.importRow(ctx, line, rowValues(record, index), categories))
	}
	if summary.Created+summary.Updated > 0 {
		s.Invalidate(ctx)
	}
	return summary, nil
}

func (sum *ImportSummary) add(result ImportResult) {
	switch result.Status {
	case ImportCreated:
		sum.Created++
	case ImportUpdated:
		sum.Updated++
	default:
		sum.Failed++
	}
	sum.Results = append(sum.Results, result)
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		index[name] = i
	}
	for _, required := range []string{"name", "slug", "price"} {
		if _, ok := index[required]; !ok {
			return nil, csvInvalid(fmt.Sprintf("missing required column %q", required))
		}
	}
	return index, nil
}

func rowValues(record []string, index map[string]int) map[string]string {
	values := make(map[string]string, len(ImportColumns))
	for _, column := range ImportColumns {
		if i, ok := index[column]; ok && i < len(record) {
			values[column] = strings.TrimSpace(record[i])
		}
	}
	return values
}

func (s *Service) categorySlugs(ctx context.Context) (map[string]string, error) {
	categories, err := s.store.ListCategories(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	bySlug := make(map[string]string, len(categories))
	for _, c := range categories {
		bySlug[c.Slug] = c.ID
	}
	return bySlug, nil
}

func parseRow(values map[string]string, categories map[string]string) (ProductInput, error) {
	var in ProductInput
	name, slug := values["name"], strings.ToLower(values["slug"])
	in.Name, in.Slug = &name, &slug

	price, err := strconv.ParseFloat(values["price"], 64)
	if err != nil {
		return ProductInput{}, fmt.Errorf("price %q is not a number", values["price"])
	}
	in.Price = &price

	if raw := values["discount_price"]; raw != "" {
		discount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ProductInput{}, fmt.Errorf("discount_price %q is not a number", raw)
		}
		in.DiscountPrice = &discount
	}
	for column, dst := range map[string]**bool{"is_discount": &in.IsDiscount, "is_feature": &in.IsFeature} {
		raw := values[column]
		if raw == "" {
			continue
		}
		value, err := strconv.ParseBool(raw)
		if err != nil {
			return ProductInput{}, fmt.Errorf("%s %q is not a boolean", column, raw)
		}
		*dst = &value
	}
	if raw := values["stock"]; raw != "" {
		stock, err := strconv.Atoi(raw)
		if err != nil {
			return ProductInput{}, fmt.Errorf("stock %q is not an integer", raw)
		}
		in.Stock = &stock
	}
	if raw := strings.ToLower(values["category_slug"]); raw != "" {
		categoryID, ok := categories[raw]
		if !ok {
			return ProductInput{}, fmt.Errorf("unknown category %q", raw)
		}
		in.CategoryID = &categoryID
	}
	for column, dst := range map[string]**string{
		"description": &in.Description,
		"image_url":   &in.ImageURL,
		"variation1":  &in.Variation1,
		"variation2":  &in.Variation2,
	} {
		if value, ok := values[column]; ok {
			*dst = &value
		}
	}
	return in, nil
}

func (s *Service) importRow(ctx context.Context, line int, values map[string]string, categories map[string]string) ImportResult {
	result := ImportResult{Line: line, Slug: strings.ToLower(values["slug"])}
	fail := func(err error) ImportResult {
		result.Status = ImportFailed
		if domainErr, ok := apperrors.As(err); ok {
			result.Error = domainErr.Message
		} else {
			result.Error = err.Error()
		}
		return result
	}

	in, err := parseRow(values, categories)
	if err != nil {
		return fail(err)
	}

	existing, err := s.store.GetProductBySlug(ctx, result.Slug)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		if _, err := s.create(ctx, in); err != nil {
			return fail(err)
		}
		result.Status = ImportCreated
	case err != nil:
		return fail(err)
	default:
		if _, err := s.update(ctx, existing, in); err != nil {
			return fail(err)
		}
		result.Status = ImportUpdated
	}
	return result
}
