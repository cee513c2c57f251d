package admin

import (
	"net/http"
	"strings"

	"github.com/louisbranch/storefront/internal/services/web/routepath"
	"github.com/louisbranch/storefront/internal/services/web/templates"
)

const maxImportBytes = 5 << 20

func (h handlers) handleProducts(w http.ResponseWriter, r *http.Request) {
	h.listProducts(w, r, false)
}

func (h handlers) handleDrafts(w http.ResponseWriter, r *http.Request) {
	h.listProducts(w, r, true)
}

func (h handlers) listProducts(w http.ResponseWriter, r *http.Request, drafts bool) {
	view, err := h.service.products(h.RequestContext(r), r.URL, drafts)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	title := "admin.products.title"
	if drafts {
		title = "admin.products.drafts_title"
	}
	h.page(w, r, http.StatusOK, title, "admin/products", view)
}

func (h handlers) handleNewProduct(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.gateway.AllCategories(h.RequestContext(r))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.productForm(w, r, http.StatusOK, templates.ProductFormView{
		Form:       newProductForm(),
		Categories: categories,
		Action:     routepath.AdminProductsNew,
	})
}

func (h handlers) handleEditProduct(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSpace(r.PathValue("productID"))
	product, categories, err := h.service.productEditor(h.RequestContext(r), productID)
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.productForm(w, r, http.StatusOK, templates.ProductFormView{
		ProductID:  product.ID,
		Form:       productForm(product),
		Categories: categories,
		Action:     routepath.AdminProduct(product.ID),
	})
}

func (h handlers) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, "")
}

func (h handlers) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	h.saveProduct(w, r, strings.TrimSpace(r.PathValue("productID")))
}

func (h handlers) saveProduct(w http.ResponseWriter, r *http.Request, productID string) {
	if !h.parseForm(w, r) {
		return
	}
	ctx := h.RequestContext(r)
	form := parseProductForm(r.PostForm)
	product, err := h.service.saveProduct(ctx, productID, form)
	if err == nil {
		key := "admin.flash.saved"
		if productID == "" {
			key = "admin.flash.created"
		}
		h.mutated(w, r, key, routepath.AdminProduct(product.ID))
		return
	}
	if !formError(err) {
		h.WriteError(w, r, err)
		return
	}
	categories, catErr := h.service.gateway.AllCategories(ctx)
	if catErr != nil {
		h.WriteError(w, r, catErr)
		return
	}
	action := routepath.AdminProductsNew
	if productID != "" {
		action = routepath.AdminProduct(productID)
	}
	h.productForm(w, r, http.StatusUnprocessableEntity, templates.ProductFormView{
		ProductID:  productID,
		Form:       form,
		Categories: categories,
		Action:     action,
		ErrorKey:   errorKey(err),
		ErrorText:  errorDetail(err),
	})
}

func (h handlers) productForm(w http.ResponseWriter, r *http.Request, status int, view templates.ProductFormView) {
	title := "admin.product.new_title"
	if view.ProductID != "" {
		title = "admin.product.edit_title"
	}
	h.page(w, r, status, title, "admin/product_form", view)
}

func (h handlers) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID := strings.TrimSpace(r.PathValue("productID"))
	if err := h.service.gateway.DeleteProduct(h.RequestContext(r), productID); err != nil {
		h.WriteError(w, r, err)
		return
	}
	h.mutated(w, r, "admin.flash.deleted", routepath.AdminProducts)
}

func (h handlers) handleImportPage(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusOK, "admin.import.title", "admin/import", templates.ImportView{})
}

func (h handlers) handleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		h.page(w, r, http.StatusBadRequest, "admin.import.title", "admin/import", templates.ImportView{ErrorKey: "admin.import.missing_file"})
		return
	}
	defer file.Close()

	summary, err := h.service.importProducts(h.RequestContext(r), file)
	if err != nil {
		if !formError(err) {
			h.WriteError(w, r, err)
			return
		}
		h.page(w, r, http.StatusUnprocessableEntity, "admin.import.title", "admin/import", templates.ImportView{
			ErrorKey:  errorKey(err),
			ErrorText: errorDetail(err),
		})
		return
	}
	h.page(w, r, http.StatusOK, "admin.import.title", "admin/import", templates.ImportView{Summary: &summary})
}

func (h handlers) handleImportTemplate(w http.ResponseWriter, r *http.Request) {
	body, err := h.service.gateway.ImportTemplate(h.RequestContext(r))
	if err != nil {
		h.WriteError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="products-template.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
