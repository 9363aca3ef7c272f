package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"gafroshka-cart/internal/contextutil"
	"gafroshka-cart/internal/kafka"
	"gafroshka-cart/internal/shopping_cart"
	myErr "gafroshka-cart/internal/types/errors"
)

// ShoppingCartHandler ручки корзины гостевой сессии
type ShoppingCartHandler struct {
	Logger  *zap.SugaredLogger
	Service *shopping_cart.Service
}

// NewShoppingCartHandler конструктор
func NewShoppingCartHandler(log *zap.SugaredLogger, s *shopping_cart.Service) *ShoppingCartHandler {
	return &ShoppingCartHandler{
		Logger:  log,
		Service: s,
	}
}

type formattedTotals struct {
	CartTotal       string `json:"cart_total"`
	DiscountAmount  string `json:"discount_amount"`
	DiscountedTotal string `json:"discounted_total"`
}

type cartView struct {
	shopping_cart.CartState
	Formatted formattedTotals `json:"formatted"`
}

type cartResponse struct {
	Success    bool                      `json:"success"`
	RowID      string                    `json:"row_id,omitempty"`
	Rejections []shopping_cart.Rejection `json:"rejections,omitempty"`
	Cart       cartView                  `json:"cart"`
}

type optionsResponse struct {
	RowID      string            `json:"row_id"`
	HasOptions bool              `json:"has_options"`
	Options    map[string]string `json:"options"`
}

// GetCart - GET /api/cart
func (h *ShoppingCartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := contextutil.GetSessionIDFromContext(r.Context())
	if !ok {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, h.Logger)
		return
	}

	cart, err := h.Service.Load(r.Context(), sessionID)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	h.writeCart(w, http.StatusOK, cartResponse{Success: true, Cart: view(cart)})
}

// AddItems - POST /api/cart/items
// Тело: один товар {"id", "qty", "price", "name", "options", ...} или массив таких товаров.
// Для одного товара в ответе row_id.
func (h *ShoppingCartHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	single, batch, ok := h.decodeRecords(w, r)
	if !ok {
		return
	}

	sessionID, _ := contextutil.GetSessionIDFromContext(r.Context())
	cart, err := h.Service.Load(r.Context(), sessionID)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	var (
		rowID    string
		inserted bool
	)
	if single != nil {
		rowID, inserted = cart.Insert(shopping_cart.ItemFromMap(single))
	} else {
		items := make([]shopping_cart.Item, 0, len(batch))
		for _, rec := range batch {
			items = append(items, shopping_cart.ItemFromMap(rec))
		}
		inserted = cart.InsertBatch(items)
	}

	var rowIDs []string
	if rowID != "" {
		rowIDs = append(rowIDs, rowID)
	}
	if err := h.Service.Commit(r.Context(), sessionID, cart, kafka.EventTypeInserted, rowIDs...); err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	if !inserted {
		if len(cart.Rejections()) > 0 {
			h.sendRejected(w, cart)
			return
		}

		// все товары с нулевым количеством, вставлять было нечего
		h.writeCart(w, http.StatusOK, cartResponse{Success: false, Cart: view(cart)})
		return
	}

	status := http.StatusOK
	if single != nil {
		status = http.StatusCreated
	}

	h.writeCart(w, status, cartResponse{
		Success:    true,
		RowID:      rowID,
		Rejections: cart.Rejections(),
		Cart:       view(cart),
	})
	h.Logger.Infof("inserted items into cart %s", sessionID)
}

// UpdateItems - PUT /api/cart/items
// Тело: {"rowid", "qty"} или массив таких записей. qty = 0 удаляет позицию.
func (h *ShoppingCartHandler) UpdateItems(w http.ResponseWriter, r *http.Request) {
	single, batch, ok := h.decodeRecords(w, r)
	if !ok {
		return
	}

	updates := make([]shopping_cart.Update, 0, len(batch)+1)
	if single != nil {
		updates = append(updates, shopping_cart.UpdateFromMap(single))
	}
	for _, rec := range batch {
		updates = append(updates, shopping_cart.UpdateFromMap(rec))
	}

	h.update(w, r, updates)
}

// DeleteItem - DELETE /api/cart/items/{rowID}
func (h *ShoppingCartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	rowID := mux.Vars(r)["rowID"]
	if rowID == "" {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return
	}

	h.update(w, r, []shopping_cart.Update{{RowID: rowID, Qty: "0"}})
}

func (h *ShoppingCartHandler) update(w http.ResponseWriter, r *http.Request, updates []shopping_cart.Update) {
	sessionID, ok := contextutil.GetSessionIDFromContext(r.Context())
	if !ok {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, h.Logger)
		return
	}

	cart, err := h.Service.Load(r.Context(), sessionID)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	rowIDs := make([]string, 0, len(updates))
	for _, u := range updates {
		rowIDs = append(rowIDs, u.RowID)
	}

	updated := cart.UpdateBatch(updates)
	if err := h.Service.Commit(r.Context(), sessionID, cart, kafka.EventTypeUpdated, rowIDs...); err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	// неизменившееся количество и неизвестная позиция, не ошибка
	if !updated && len(cart.Rejections()) > 0 {
		h.sendRejected(w, cart)
		return
	}

	h.writeCart(w, http.StatusOK, cartResponse{
		Success:    updated,
		Rejections: cart.Rejections(),
		Cart:       view(cart),
	})
}

// GetItemOptions - GET /api/cart/items/{rowID}/options
func (h *ShoppingCartHandler) GetItemOptions(w http.ResponseWriter, r *http.Request) {
	rowID := mux.Vars(r)["rowID"]

	sessionID, ok := contextutil.GetSessionIDFromContext(r.Context())
	if !ok {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, h.Logger)
		return
	}

	cart, err := h.Service.Load(r.Context(), sessionID)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err = json.NewEncoder(w).Encode(optionsResponse{
		RowID:      rowID,
		HasOptions: cart.HasOptions(rowID),
		Options:    cart.ProductOptions(rowID),
	})
	if err != nil {
		h.Logger.Warnw("error writing response", "err", err)
	}
}

// ApplyDiscount - POST /api/cart/discount
// Тело: {"value": "10", "type": "percentage" | "fixed", "code": "SALE10"}
func (h *ShoppingCartHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := contextutil.GetSessionIDFromContext(r.Context())
	if !ok {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, h.Logger)
		return
	}

	var body map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&body); err != nil {
		myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		return
	}

	cart, err := h.Service.Load(r.Context(), sessionID)
	if err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	applied := cart.ApplyDiscount(shopping_cart.DiscountFromMap(body))
	if err := h.Service.Commit(r.Context(), sessionID, cart, kafka.EventTypeDiscountApplied); err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	if !applied {
		h.sendRejected(w, cart)
		return
	}

	h.writeCart(w, http.StatusOK, cartResponse{Success: true, Cart: view(cart)})
	h.Logger.Infof("discount %s applied to cart %s", cart.DiscountCode(), sessionID)
}

// DestroyCart - DELETE /api/cart
func (h *ShoppingCartHandler) DestroyCart(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := contextutil.GetSessionIDFromContext(r.Context())
	if !ok {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, h.Logger)
		return
	}

	cart := shopping_cart.NewCart(nil, h.Logger)
	cart.Destroy()
	if err := h.Service.Commit(r.Context(), sessionID, cart, kafka.EventTypeDestroyed); err != nil {
		myErr.SendErrorTo(w, err, http.StatusInternalServerError, h.Logger)
		return
	}

	h.writeCart(w, http.StatusOK, cartResponse{Success: true, Cart: view(cart)})
	h.Logger.Infof("cart %s destroyed", sessionID)
}

// decodeRecords разбирает тело: объект или массив объектов
func (h *ShoppingCartHandler) decodeRecords(w http.ResponseWriter, r *http.Request) (map[string]any, []map[string]any, bool) {
	if _, ok := contextutil.GetSessionIDFromContext(r.Context()); !ok {
		myErr.SendErrorTo(w, myErr.ErrNoAuth, http.StatusUnauthorized, h.Logger)
		return nil, nil, false
	}

	var raw json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		return nil, nil, false
	}

	var single map[string]any
	if err := unmarshalNumbers(raw, &single); err == nil && single != nil {
		return single, nil, true
	}

	var batch []map[string]any
	if err := unmarshalNumbers(raw, &batch); err != nil {
		myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		return nil, nil, false
	}

	if batch == nil {
		batch = []map[string]any{}
	}
	return nil, batch, true
}

func (h *ShoppingCartHandler) sendRejected(w http.ResponseWriter, cart *shopping_cart.Cart) {
	rejections := cart.Rejections()
	reasons := make([]string, 0, len(rejections))
	for _, rej := range rejections {
		reasons = append(reasons, string(rej.Reason))
	}

	myErr.SendErrorTo(w, myErr.ErrCartRejected, http.StatusUnprocessableEntity, h.Logger, reasons...)
}

func (h *ShoppingCartHandler) writeCart(w http.ResponseWriter, status int, resp cartResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Logger.Warnw("error writing response", "err", err)
	}
}

func view(cart *shopping_cart.Cart) cartView {
	return cartView{
		CartState: cart.Contents(),
		Formatted: formattedTotals{
			CartTotal:       shopping_cart.FormatAmount(cart.Total()),
			DiscountAmount:  shopping_cart.FormatAmount(cart.DiscountAmount()),
			DiscountedTotal: shopping_cart.FormatAmount(cart.DiscountedTotal()),
		},
	}
}

func unmarshalNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
