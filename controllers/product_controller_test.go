package controllers_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonID(id float64) string {
	return strconv.FormatInt(int64(id), 10)
}

func TestStorefrontHidesFloorPrice(t *testing.T) {
	app := newTestApp(t, appOptions{})
	shopper := app.newClient()

	w := shopper.get("/v1/products")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	products := decode(t, w)["data"].([]interface{})
	require.Len(t, products, 2)

	byName := map[string]map[string]interface{}{}
	for _, p := range products {
		product := p.(map[string]interface{})
		byName[product["name"].(string)] = product
	}
	_, hasPrice := byName["Vintage Lamp"]["price"]
	assert.False(t, hasPrice)
	assert.Equal(t, true, byName["Vintage Lamp"]["make_offer_enabled"])
	assert.Equal(t, "12.5", byName["Mug"]["price"])

	detail := decode(t, shopper.get("/v1/products/"+app.offerID))["data"].(map[string]interface{})
	assert.Equal(t, "Vintage Lamp", detail["name"])
	assert.NotContains(t, detail, "price")

	assert.Equal(t, http.StatusNotFound, shopper.get("/v1/products/999").Code)
	assert.Equal(t, http.StatusNotFound, shopper.get("/v1/products/abc").Code)
}

func TestCart_RemoveItem(t *testing.T) {
	app := newTestApp(t, appOptions{})
	shopper := app.newClient()
	other := app.newClient()

	resp := shopper.offer(t, app.offerID, "150")
	require.Equal(t, "accepted", resp["status"])
	itemID := resp["cart_item_id"].(string)

	assert.Equal(t, http.StatusNotFound, other.delete("/v1/cart/"+itemID).Code)

	w := shopper.delete("/v1/cart/" + itemID)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, http.StatusNotFound, shopper.delete("/v1/cart/"+itemID).Code)

	cart := decode(t, shopper.get("/v1/cart"))["data"].(map[string]interface{})
	assert.Empty(t, cart["items"])
	assert.Equal(t, "0", cart["subtotal"])
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t, appOptions{})
	w := app.newClient().get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}
