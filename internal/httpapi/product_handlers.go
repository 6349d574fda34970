package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"slimmom.org/internal/auth"
	"slimmom.org/internal/product"
)

type createProductRequest struct {
	Title                string   `json:"title"`
	Categories           []string `json:"categories"`
	Weight               float64  `json:"weight"`
	Calories             float64  `json:"calories"`
	GroupBloodNotAllowed []bool   `json:"groupBloodNotAllowed"`
}

type intakeRequest struct {
	Weight    float64 `json:"weight"`
	Height    float64 `json:"height"`
	Age       float64 `json:"age"`
	BloodType int     `json:"bloodType"`
}

type intakeResponse struct {
	DailyKcal              int                `json:"dailyKcal"`
	NotRecommendedProducts []*product.Product `json:"notRecommendedProducts"`
}

type addConsumedRequest struct {
	ProductID string  `json:"productId"`
	Date      string  `json:"date"`
	Quantity  float64 `json:"quantity"`
}

const dateLayout = "2006-01-02"

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := a.products.List(r.Context())
	if err != nil {
		respondProductError(w, err)
		return
	}
	if products == nil {
		products = []*product.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p := &product.Product{
		Title:                req.Title,
		Categories:           req.Categories,
		Weight:               req.Weight,
		Calories:             req.Calories,
		GroupBloodNotAllowed: req.GroupBloodNotAllowed,
	}
	if err := a.products.Create(r.Context(), p); err != nil {
		respondProductError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (a *API) handleSearchProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query string is required")
		return
	}
	bloodType, err := strconv.Atoi(r.URL.Query().Get("bloodType"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Blood type is required")
		return
	}
	products, err := a.products.Search(r.Context(), query, bloodType)
	if err != nil {
		respondProductError(w, err)
		return
	}
	if products == nil {
		products = []*product.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (a *API) handleDailyIntake(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	weight, _ := strconv.ParseFloat(q.Get("weight"), 64)
	height, _ := strconv.ParseFloat(q.Get("height"), 64)
	age, _ := strconv.ParseFloat(q.Get("age"), 64)
	bloodType, _ := strconv.Atoi(q.Get("bloodType"))

	result, err := a.products.DailyIntake(r.Context(), weight, height, age, bloodType)
	if err != nil {
		if err == product.ErrInvalidInput {
			writeError(w, http.StatusBadRequest, "Please provide valid weight, height, and age")
			return
		}
		respondProductError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, intakeResponse{
		DailyKcal:              result.DailyKcal,
		NotRecommendedProducts: result.NotRecommendedProducts,
	})
}

func (a *API) handleRecordDailyIntake(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())
	var req intakeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := a.products.RecordDailyIntake(r.Context(), u.ID, req.Weight, req.Height, req.Age, req.BloodType)
	if err != nil {
		respondProductError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, intakeResponse{
		DailyKcal:              result.DailyKcal,
		NotRecommendedProducts: result.NotRecommendedProducts,
	})
}

func (a *API) handleAddConsumed(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())
	var req addConsumedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Date must be formatted as YYYY-MM-DD")
		return
	}
	entry, err := a.products.AddConsumed(r.Context(), u.ID, req.ProductID, date, req.Quantity)
	if err != nil {
		respondProductError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (a *API) handleDeleteConsumed(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())
	id := r.PathValue("id")
	if err := a.products.DeleteConsumed(r.Context(), u.ID, id); err != nil {
		if err == product.ErrNotFound {
			writeError(w, http.StatusNotFound, "Consumed product not found")
			return
		}
		respondProductError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Consumed product deleted successfully"})
}

func (a *API) handleDayInfo(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.UserFromContext(r.Context())
	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "Date is required")
		return
	}
	day, err := time.Parse(dateLayout, raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Date must be formatted as YYYY-MM-DD")
		return
	}
	info, err := a.products.DayInfo(r.Context(), u.ID, day)
	if err != nil {
		respondProductError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info)
}
