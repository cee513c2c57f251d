package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/louisbranch/storefront/internal/services/api/auth"
	"github.com/louisbranch/storefront/internal/services/api/orders"
	"github.com/louisbranch/storefront/internal/services/api/profiles"
	"github.com/louisbranch/storefront/internal/services/api/storage"
)

func (a *api) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in auth.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	session, err := a.auth.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (a *api) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in auth.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	session, err := a.auth.Login(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (a *api) handleMe(w http.ResponseWriter, r *http.Request) {
	profile, err := a.profiles.Me(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (a *api) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	var in profiles.SelfUpdate
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	profile, err := a.profiles.UpdateMe(r.Context(), caller(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (a *api) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	list, err := a.profiles.List(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *api) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := a.profiles.Get(r.Context(), caller(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (a *api) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in profiles.AdminUpdate
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	profile, err := a.profiles.Update(r.Context(), caller(r), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (a *api) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	msg, err := a.profiles.Delete(r.Context(), caller(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (a *api) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var in orders.CreateInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	user := caller(r)
	order, err := a.orders.Create(r.Context(), in, user, user.ID != "")
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (a *api) handleMyOrders(w http.ResponseWriter, r *http.Request) {
	list, err := a.orders.ListMine(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (a *api) handleListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := a.orders.List(r.Context(), caller(r), orders.ListInput{
		Filter:  q.Get("filter"),
		OrderBy: q.Get("order_by"),
		Page:    queryInt(r, "page"),
		Limit:   queryInt(r, "limit"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *api) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := a.orders.Get(r.Context(), caller(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (a *api) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	var in orders.UpdateInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	order, err := a.orders.Update(r.Context(), caller(r), mux.Vars(r)["id"], in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (a *api) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	msg, err := a.orders.Delete(r.Context(), caller(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

func (a *api) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	current, err := a.settings.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (a *api) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in storage.StoreSettings
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}
	updated, err := a.settings.Update(r.Context(), caller(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (a *api) handleStats(w http.ResponseWriter, r *http.Request) {
	overview, err := a.dashboard.Stats(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}
