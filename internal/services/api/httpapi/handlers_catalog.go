package httpapi

import (
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	apperrors "github.com/louisbranch/storefront/internal/platform/errors"
	"github.com/louisbranch/storefront/internal/services/api/catalog"
	"github.com/louisbranch/storefront/internal/services/api/reviews"
	"github.com/louisbranch/storefront/internal/services/api/storage"
)

func productFilters(r *http.Request, withPrices bool) (catalog.Filters, error) {
	q := r.URL.Query()
	f := catalog.Filters{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		SortBy:   storage.ProductSort(q.Get("sortBy")),
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
	}
	if !withPrices {
		return f, nil
	}
	var err error
	if f.MinPrice, err = queryFloat(r, "minPrice"); err != nil {
		return catalog.Filters{}, err
	}
	if f.MaxPrice, err = queryFloat(r, "maxPrice"); err != nil {
		return catalog.Filters{}, err
	}
	f.InStock = queryBool(r, "inStock")
	f.OnSale = queryBool(r, "onSale")
	return f, nil
}

func (a *api) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filters, err := productFilters(r, true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := a.catalog.List(r.Context(), filters)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (a *api) handleDrafts(w http.ResponseWriter, r *http.Request) {
	filters, _ := productFilters(r, false)
	page, err := a.catalog.Drafts(r.Context(), caller(r), filters)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (a *api) handleListAllProducts(w http.ResponseWriter, r *http.Request) {
	filters, err := productFilters(r, true)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := a.catalog.ListAll(r.Context(), caller(r), filters)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (a *api) handleFeatured(w http.ResponseWriter, r *http.Request) {
	products, err := a.catalog.Featured(r.Context(), queryInt(r, "limit"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (a *api) handleRecent(w http.ResponseWriter, r *http.Request) {
	products, err := a.catalog.Recent(r.Context(), queryInt(r, "limit"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (a *api) handleProductBySlug(w http.ResponseWriter, r *http.Request) {
	product, err := a.catalog.BySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (a *api) handleProductByID(w http.ResponseWriter, r *http.Request) {
	product, err := a.catalog.ByID(r.Context(), caller(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (a *api) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	product, err := a.catalog.Create(r.Context(), caller(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

func (a *api) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var in catalog.ProductInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	product, err := a.catalog.Update(r.Context(), caller(r), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (a *api) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	msg, err := a.catalog.Delete(r.Context(), caller(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// handleImport accepts either a raw text/csv body or a multipart upload
// with the CSV in the "file" field.
func (a *api) handleImport(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxImportBytes)
	defer body.Close()

	var source io.Reader = body
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		r.Body = body
		file, _, err := r.FormFile("file")
		if err != nil {
			writeError(w, r, apperrors.New(apperrors.CodeCSVInvalid, "CSV file is required"))
			return
		}
		defer file.Close()
		source = file
	}

	summary, err := a.catalog.Import(r.Context(), caller(r), source)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (a *api) handleImportTemplate(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="products-template.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(catalog.Template())
}

func (a *api) handleListReviews(w http.ResponseWriter, r *http.Request) {
	list, err := a.reviews.ListForProduct(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *api) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var in reviews.CreateInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	review, err := a.reviews.Create(r.Context(), caller(r), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (a *api) handleCategories(w http.ResponseWriter, r *http.Request) {
	list, err := a.catalog.Categories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *api) handleAllCategories(w http.ResponseWriter, r *http.Request) {
	list, err := a.catalog.AllCategories(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *api) handleCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	category, err := a.catalog.CategoryBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (a *api) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var in catalog.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	category, err := a.catalog.CreateCategory(r.Context(), caller(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (a *api) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var in catalog.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	category, err := a.catalog.UpdateCategory(r.Context(), caller(r), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (a *api) handleSitemap(w http.ResponseWriter, r *http.Request) {
	entries, err := a.catalog.SitemapEntries(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
