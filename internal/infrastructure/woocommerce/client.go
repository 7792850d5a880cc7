// Package woocommerce implementa el cliente REST de la tienda WooCommerce.
// Adaptador delgado: autenticación básica con consumer key/secret, JSON plano
// con net/http y un caché TTL para el cliente genérico de mostrador.
package woocommerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/cafe-pos-api/pkg/config"
	"github.com/jhoicas/cafe-pos-api/pkg/logger"
)

// guestCustomerKey clave única del caché del cliente de mostrador.
const guestCustomerKey = "guest_customer_id"

// guestCustomerTTL tiempo de vida del id cacheado. Corto a propósito: si el
// cliente genérico se recrea en la tienda, el id viejo expira solo.
const guestCustomerTTL = 15 * time.Minute

// Order una orden de la tienda con sus ítems de línea.
type Order struct {
	ID         int64           `json:"id"`
	Status     string          `json:"status"`
	CustomerID int64           `json:"customer_id"`
	Total      decimal.Decimal `json:"total"`
	LineItems  []OrderLineItem `json:"line_items"`
}

// OrderLineItem un ítem de línea de una orden.
type OrderLineItem struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type customer struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// Client cliente de la API REST de WooCommerce (wp-json/wc/v3).
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	guestEmail     string
	httpClient     *http.Client
	cache          *cache.Cache
	log            *logger.Logger
}

// NewClient construye el cliente con las credenciales de la tienda.
func NewClient(cfg config.WooConfig, log *logger.Logger) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:        cfg.BaseURL,
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		guestEmail:     cfg.GuestCustomerEmail,
		httpClient:     &http.Client{Timeout: timeout},
		cache:          cache.New(guestCustomerTTL, 5*time.Minute),
		log:            log.Component("woocommerce"),
	}
}

// GetOrder consulta una orden por ID.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*Order, error) {
	var order Order
	if err := c.doJSON(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", orderID), nil, &order); err != nil {
		return nil, fmt.Errorf("woocommerce: get order %d: %w", orderID, err)
	}
	return &order, nil
}

// UpdateOrderStatus cambia el estado de una orden (ej. "completed").
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	body := map[string]string{"status": status}
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/orders/%d", orderID), body, nil); err != nil {
		return fmt.Errorf("woocommerce: update order %d status: %w", orderID, err)
	}
	return nil
}

// GuestCustomerID resuelve el id del cliente genérico de mostrador por email.
// El resultado se cachea con TTL; nunca se guarda en estado global mutable.
func (c *Client) GuestCustomerID(ctx context.Context) (int64, error) {
	if v, ok := c.cache.Get(guestCustomerKey); ok {
		return v.(int64), nil
	}

	path := "/customers?email=" + url.QueryEscape(c.guestEmail)
	var customers []customer
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &customers); err != nil {
		return 0, fmt.Errorf("woocommerce: resolver cliente de mostrador: %w", err)
	}
	if len(customers) == 0 {
		return 0, fmt.Errorf("woocommerce: cliente de mostrador %q no existe en la tienda", c.guestEmail)
	}

	id := customers[0].ID
	c.cache.Set(guestCustomerKey, id, cache.DefaultExpiration)
	return id, nil
}

// InvalidateGuestCustomer descarta el id cacheado (tras recrear el cliente en la tienda).
func (c *Client) InvalidateGuestCustomer() {
	c.cache.Delete(guestCustomerKey)
}

// doJSON ejecuta una petición autenticada y decodifica la respuesta JSON en out (si out != nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	if c.baseURL == "" {
		return fmt.Errorf("WOO_BASE_URL no configurado")
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("serializar cuerpo: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("crear request: %w", err)
	}
	req.SetBasicAuth(c.consumerKey, c.consumerSecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("llamada HTTP: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn().
			Int("status", resp.StatusCode).
			Str("path", path).
			Msg("respuesta no exitosa de la tienda")
		return fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(raw), 300))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decodificar respuesta: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
