package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	Upsert(ctx context.Context, category domain.Category) (*domain.Category, error)
}

// Result counts what a run wrote.
type Result struct {
	Products   int
	Categories int
}

// CSVImporter reads catalog exports and inserts or updates products keyed by sku.
// Categories named by product rows are created on first sight.
type CSVImporter struct {
	reader       *csv.Reader
	productRepo  ProductWriter
	categoryRepo CategoryWriter
	logger       zerolog.Logger
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter, logger zerolog.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:       csvr,
		productRepo:  products,
		categoryRepo: categories,
		logger:       logger.With().Str("component", "importer").Logger(),
	}
}

// Run parses every row and upserts it. It stops at the first invalid row.
func (i *CSVImporter) Run(ctx context.Context) (Result, error) {
	var res Result
	headers, err := i.reader.Read()
	if err != nil {
		return res, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"name", "retailPrice", "resellerPrice"} {
		if _, ok := index[required]; !ok {
			return res, fmt.Errorf("missing column %q", required)
		}
	}

	seen := make(map[string]bool)
	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return res, fmt.Errorf("read row %d: %w", line, err)
		}
		if blank(record) {
			continue
		}

		p, err := parseRow(record, index)
		if err != nil {
			return res, fmt.Errorf("row %d: %w", line, err)
		}

		if p.Category != "" && !seen[strings.ToLower(p.Category)] && i.categoryRepo != nil {
			if _, err := i.categoryRepo.Upsert(ctx, domain.Category{Name: p.Category}); err != nil {
				return res, fmt.Errorf("upsert category %q: %w", p.Category, err)
			}
			seen[strings.ToLower(p.Category)] = true
			res.Categories++
		}

		saved, err := i.productRepo.Upsert(ctx, p)
		if err != nil {
			return res, fmt.Errorf("upsert product %q: %w", p.Name, err)
		}
		res.Products++
		i.logger.Debug().Str("product_id", saved.ID).Str("sku", saved.SKU).Msg("product imported")
	}

	i.logger.Info().Int("products", res.Products).Int("categories", res.Categories).Msg("import finished")
	return res, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (domain.Product, error) {
	get := func(key string) string { return pick(record, index, key) }

	p := domain.Product{
		ID:          get("id"),
		Name:        get("name"),
		Category:    get("category"),
		SKU:         get("sku"),
		Image:       get("image"),
		Description: get("description"),
		Tags:        splitTags(get("tags")),
	}
	if p.Name == "" {
		return p, errors.New("name required")
	}
	if p.ID != "" && len(p.ID) != 36 {
		return p, fmt.Errorf("invalid id %q", p.ID)
	}

	var err error
	if p.RetailPrice, err = requiredDecimal(get("retailPrice"), "retailPrice"); err != nil {
		return p, err
	}
	if p.ResellerPrice, err = requiredDecimal(get("resellerPrice"), "resellerPrice"); err != nil {
		return p, err
	}
	if p.SellingPrice, err = optionalDecimal(get("sellingPrice"), "sellingPrice"); err != nil {
		return p, err
	}
	if p.DiscountPrice, err = optionalDecimal(get("discountPrice"), "discountPrice"); err != nil {
		return p, err
	}
	if p.CostPrice, err = optionalDecimal(get("costPrice"), "costPrice"); err != nil {
		return p, err
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"discount", &p.Discount},
		{"stock", &p.Stock},
		{"reviews", &p.Reviews},
		{"numberOfImagesRequired", &p.NumberOfImagesRequired},
	}
	for _, f := range ints {
		if *f.dst, err = optionalInt(get(f.key), f.key); err != nil {
			return p, err
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"onOffer", &p.OnOffer},
		{"needsCustomerName", &p.NeedsCustomerName},
		{"needsCustomerPhoto", &p.NeedsCustomerPhoto},
	}
	for _, f := range bools {
		if *f.dst, err = optionalBool(get(f.key), f.key); err != nil {
			return p, err
		}
	}

	if v := get("rating"); v != "" {
		if p.Rating, err = strconv.ParseFloat(v, 64); err != nil || p.Rating < 0 || p.Rating > 5 {
			return p, fmt.Errorf("invalid rating %q", v)
		}
	}
	return p, nil
}

func requiredDecimal(v, field string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, fmt.Errorf("%s required", field)
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid %s %q", field, v)
	}
	return d, nil
}

func optionalDecimal(v, field string) (decimal.NullDecimal, error) {
	if v == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := requiredDecimal(v, field)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func optionalInt(v, field string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", field, v)
	}
	return n, nil
}

func optionalBool(v, field string) (bool, error) {
	switch strings.ToLower(v) {
	case "":
		return false, nil
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", field, v)
	}
	return b, nil
}

// splitTags accepts ";" or "|" separated tag lists.
func splitTags(v string) []string {
	var out []string
	for _, t := range strings.FieldsFunc(v, func(r rune) bool { return r == ';' || r == '|' }) {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
