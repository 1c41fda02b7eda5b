package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Govind-619/MakeOffer/config"
	"github.com/Govind-619/MakeOffer/controllers"
	"github.com/Govind-619/MakeOffer/models"
	"github.com/Govind-619/MakeOffer/negotiation"
	"github.com/Govind-619/MakeOffer/repository"
	"github.com/Govind-619/MakeOffer/routes"
	"github.com/Govind-619/MakeOffer/utils"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	testSecret        = "test-secret"
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "correct horse"
)

type testApp struct {
	router  *gin.Engine
	db      *gorm.DB
	offerID string
	plainID string
}

type appOptions struct {
	lenient bool
	trust   bool
	limiter *utils.RateLimiter
}

func newTestApp(t *testing.T, opts appOptions) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetLogOutput(io.Discard, io.Discard, io.Discard)

	dsn := filepath.Join(t.TempDir(), "app.db") + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, config.Migrate(db))

	require.NoError(t, config.CreateSampleAdmin(db, &config.Config{
		AdminEmail:    testAdminEmail,
		AdminPassword: testAdminPassword,
	}))

	offerProduct := models.Product{Name: "Vintage Lamp", RegularPrice: decimal.NewFromInt(100), IsActive: true, MakeOfferEnabled: true}
	plainProduct := models.Product{Name: "Mug", RegularPrice: decimal.RequireFromString("12.50"), IsActive: true}
	require.NoError(t, db.Create(&offerProduct).Error)
	require.NoError(t, db.Create(&plainProduct).Error)

	store := repository.NewMemoryAttemptStore(negotiation.StateTTL)
	t.Cleanup(store.Stop)

	products := repository.NewProductRepository(db)
	cart := repository.NewCartRepository(db)
	settings := repository.NewSettingsRepository(db)
	session := negotiation.NewSession(store, products, cart, nil, negotiation.Options{TrustClientCounter: opts.trust})

	router := routes.SetupRouter(routes.Controllers{
		Offers: controllers.NewOfferController(session, settings, controllers.OfferOptions{
			NonceSecret:         testSecret,
			LenientCartFailures: opts.lenient,
		}),
		Products:  controllers.NewProductController(products),
		Cart:      controllers.NewCartController(cart),
		AdminAuth: controllers.NewAdminAuthController(db, testSecret),
		Settings:  controllers.NewOfferSettingsController(settings),
	}, routes.Options{
		DB:            db,
		JWTSecret:     testSecret,
		SessionSecret: testSecret,
		OfferLimiter:  opts.limiter,
	})

	return &testApp{
		router:  router,
		db:      db,
		offerID: fmt.Sprint(offerProduct.ID),
		plainID: fmt.Sprint(plainProduct.ID),
	}
}

// client keeps the visitor cookie between requests like a browser
type client struct {
	app     *testApp
	cookies map[string]*http.Cookie
	token   string
}

func (a *testApp) newClient() *client {
	return &client{app: a, cookies: map[string]*http.Cookie{}}
}

func (c *client) send(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.app.router.ServeHTTP(w, req)
	for _, cookie := range w.Result().Cookies() {
		c.cookies[cookie.Name] = cookie
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.send(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *client) delete(path string) *httptest.ResponseRecorder {
	return c.send(httptest.NewRequest(http.MethodDelete, path, nil))
}

func (c *client) postJSON(path string, body interface{}) *httptest.ResponseRecorder {
	return c.sendJSON(http.MethodPost, path, body)
}

func (c *client) sendJSON(method, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return c.send(req)
}

func (c *client) sendJSONWithHeader(path string, body interface{}, header, value string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(header, value)
	return c.send(req)
}

func (c *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.send(req)
}

func (c *client) nonce(t *testing.T) string {
	t.Helper()
	w := c.get("/v1/offers/nonce")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decode(t, w)["data"].(map[string]interface{})
	nonce, _ := data[utils.NonceField].(string)
	require.NotEmpty(t, nonce)
	return nonce
}

func (c *client) offer(t *testing.T, productID, amount string) map[string]interface{} {
	t.Helper()
	w := c.postJSON("/v1/offers", map[string]interface{}{
		"product_id":     json.Number(productID),
		"offer_amount":   amount,
		utils.NonceField: c.nonce(t),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w)
}

func (c *client) acceptCounter(t *testing.T, productID, amount string) *httptest.ResponseRecorder {
	t.Helper()
	return c.postJSON("/v1/offers/accept-counter", map[string]interface{}{
		"product_id":     productID,
		"counter_amount": amount,
		utils.NonceField: c.nonce(t),
	})
}

func (c *client) attempts(t *testing.T, productID string) float64 {
	t.Helper()
	w := c.get("/v1/offers/" + productID + "/attempts")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode(t, w)["data"].(map[string]interface{})["attempts"].(float64)
}

func (c *client) login(t *testing.T) {
	t.Helper()
	w := c.postJSON("/v1/admin/login", map[string]string{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	c.token = decode(t, w)["data"].(map[string]interface{})["token"].(string)
	require.NotEmpty(t, c.token)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}
