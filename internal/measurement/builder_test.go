package measurement

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
)

func TestPage_Payload(t *testing.T) {
	req, err := testCollector().Page(samplePageEvent(), testSettings())
	require.NoError(t, err)

	raw, values := queryOf(t, req)

	assert.True(t, strings.HasPrefix(raw, "v=2&tid="+testMeasurementID+"&_p="))
	assert.Equal(t, "page_view", values.Get("en"))
	assert.Equal(t, "1", values.Get("_s"))
	assert.Equal(t, "1", values.Get("_ee"))
	assert.NotEmpty(t, values.Get("_p"))

	assert.Equal(t, "https://example.com/full-url", values.Get("dl"))
	assert.Equal(t, "page title", values.Get("dt"))
	assert.Equal(t, "https://example.com/another-page", values.Get("dr"))

	assert.Equal(t, testEventUUID, values.Get("ep.event_id"))
	assert.Equal(t, "page name", values.Get("ep.page_name"))
	assert.Equal(t, "category", values.Get("ep.page_category"))
	assert.Equal(t, "value1,value2", values.Get("ep.page_keywords"))
	assert.Equal(t, "?test=1", values.Get("ep.page_search"))
	assert.Equal(t, "value1", values.Get("ep.prop1"))
	assert.Equal(t, "10", values.Get("epn.prop2"))
	assert.Equal(t, "USD", values.Get("cu"))
	assert.False(t, values.Has("ep.currency"))

	assert.Equal(t, "108670052.1723475000", values.Get("cid"))
	assert.Equal(t, "fr-fr", values.Get("ul"))
	assert.Equal(t, "1024x768", values.Get("sr"))
	assert.Equal(t, "macOS", values.Get("uap"))
	assert.Equal(t, "14.6.1", values.Get("uapv"))
	assert.Equal(t, "FR", values.Get("_uc"))
	assert.Equal(t, "192.168.0.1", values.Get("_uip"))

	assert.Equal(t, "123", values.Get("uid"))
	assert.Equal(t, "456", values.Get("up.anonymous_id"))
	assert.Equal(t, "value1", values.Get("up.prop1"))
	assert.Equal(t, "10", values.Get("upn.prop2"))

	assert.Equal(t, "email", values.Get("cm"))
	assert.Equal(t, "newsletter", values.Get("cs"))
	assert.Equal(t, "summer", values.Get("cn"))

	assert.Equal(t, "1723475000", values.Get("sid"))
	assert.Equal(t, "2", values.Get("sct"))
	assert.Equal(t, "1", values.Get("_ss"))
	assert.Equal(t, "0", values.Get("seg"))
	assert.False(t, values.Has("_fv"))
	assert.False(t, values.Has("_nsi"))
	assert.False(t, values.Has("_dbg"))

	assert.Equal(t, "G111", values.Get("gcs"))
	assert.Equal(t, "13t3t3t2t5l1", values.Get("gcd"))
	assert.Equal(t, "0", values.Get("npa"))
	assert.Equal(t, "syphamo", values.Get("dma_cps"))
	assert.Equal(t, "1", values.Get("dma"))
	assert.Equal(t, "noapi", values.Get("pscdl"))
}

func TestPage_FieldOrder(t *testing.T) {
	req, err := testCollector().Page(samplePageEvent(), testSettings())
	require.NoError(t, err)

	raw, _ := queryOf(t, req)

	ordered := []string{"v=", "&tid=", "&cid=", "&dl=", "&en=", "&ep.", "&epn.", "&uid=", "&sid=", "&up.", "&gcs=", "&cu=", "&_uip="}
	last := -1
	for _, key := range ordered {
		idx := strings.Index(raw, key)
		require.GreaterOrEqual(t, idx, 0, "missing %s", key)
		assert.Greater(t, idx, last, "%s out of order", key)
		last = idx
	}
}

func TestPage_SearchInLocation(t *testing.T) {
	req, err := testCollector(WithSearchInLocation(true)).Page(samplePageEvent(), testSettings())
	require.NoError(t, err)

	_, values := queryOf(t, req)
	assert.Equal(t, "https://example.com/full-url?test=1", values.Get("dl"))
}

func TestPage_FallsBackToContextURL(t *testing.T) {
	event := samplePageEvent()
	event.Data.Page.URL = ""
	event.Context.Page.URL = "https://example.com/from-context"

	req, err := testCollector().Page(event, testSettings())
	require.NoError(t, err)

	_, values := queryOf(t, req)
	assert.Equal(t, "https://example.com/from-context", values.Get("dl"))
}

func TestPage_ValidationErrors(t *testing.T) {
	noData := samplePageEvent()
	noData.Data.Page = nil

	noURL := samplePageEvent()
	noURL.Data.Page.URL = ""
	noURL.Context.Page.URL = ""

	for name, event := range map[string]*domain.Event{"no page data": noData, "no url": noURL} {
		t.Run(name, func(t *testing.T) {
			req, err := testCollector().Page(event, testSettings())

			assert.Nil(t, req)
			var valErr *ValidationError
			assert.True(t, errors.As(err, &valErr))
		})
	}
}

func TestTrack_Payload(t *testing.T) {
	req, err := testCollector().Track(sampleTrackEvent("button_click"), testSettings())
	require.NoError(t, err)

	_, values := queryOf(t, req)

	assert.Equal(t, "button_click", values.Get("en"))
	assert.Equal(t, "value1", values.Get("ep.prop1"))
	assert.Equal(t, "10", values.Get("epn.prop2"))
	assert.Equal(t, "USD", values.Get("cu"))
	assert.Equal(t, "https://example.com/full-url", values.Get("dl"))
	assert.False(t, values.Has("_c"))
	assert.False(t, values.Has("pr1"))

	assert.Equal(t, "G101", values.Get("gcs"))
	assert.Equal(t, "1", values.Get("npa"))
	assert.Equal(t, "-", values.Get("dma_cps"))
	assert.Equal(t, "denied", values.Get("pscdl"))
}

func TestTrack_Products(t *testing.T) {
	products := []domain.Properties{
		{{Key: "sku", Value: "SKU_1"}, {Key: "name", Value: "Tee"}, {Key: "price", Value: "9.99"}, {Key: "quantity", Value: "2"}},
		{{Key: "sku", Value: "SKU_2"}, {Key: "list name", Value: "Summer"}},
		{{Key: "sku", Value: "SKU_3"}, {Key: "color", Value: "blue"}},
	}

	req, err := testCollector().Track(sampleTrackEvent("purchase", products...), testSettings())
	require.NoError(t, err)

	raw, values := queryOf(t, req)

	assert.Equal(t, "idSKU_1~nmTee~pr9.99~qt2", values.Get("pr1"))
	assert.Equal(t, "idSKU_2~lnSummer", values.Get("pr2"))
	assert.Equal(t, "idSKU_3~k0color~v0blue", values.Get("pr3"))
	assert.False(t, values.Has("pr4"))

	assert.Less(t, strings.Index(raw, "&pr1="), strings.Index(raw, "&pr2="))
	assert.Less(t, strings.Index(raw, "&pr2="), strings.Index(raw, "&pr3="))
	assert.Less(t, strings.Index(raw, "&_uip="), strings.Index(raw, "&pr1="))
}

func TestTrack_ProductsCapped(t *testing.T) {
	products := make([]domain.Properties, MaxItems+1)
	for i := range products {
		products[i] = domain.Properties{{Key: "sku", Value: fmt.Sprintf("SKU_%d", i+1)}}
	}

	req, err := testCollector().Track(sampleTrackEvent("purchase", products...), testSettings())
	require.NoError(t, err)

	_, values := queryOf(t, req)
	assert.Equal(t, "idSKU_200", values.Get("pr200"))
	assert.False(t, values.Has("pr201"))
}

func TestTrack_ConversionAndDebug(t *testing.T) {
	settings := testSettings()
	settings[SettingConversionEvents] = "sign_up, purchase"
	settings[SettingDebugMode] = "true"

	req, err := testCollector().Track(sampleTrackEvent("purchase"), settings)
	require.NoError(t, err)

	_, values := queryOf(t, req)
	assert.Equal(t, "1", values.Get("_c"))
	assert.Equal(t, "1", values.Get("_dbg"))

	req, err = testCollector().Track(sampleTrackEvent("add_to_cart"), settings)
	require.NoError(t, err)

	_, values = queryOf(t, req)
	assert.False(t, values.Has("_c"))
}

func TestTrack_EmptyName(t *testing.T) {
	req, err := testCollector().Track(sampleTrackEvent(""), testSettings())

	assert.Nil(t, req)
	var valErr *ValidationError
	require.True(t, errors.As(err, &valErr))
	assert.Equal(t, "data.track.name", valErr.Field)
}

func TestTrack_FirstVisit(t *testing.T) {
	event := sampleTrackEvent("button_click")
	event.Context.Session.LastSeen = event.Context.Session.FirstSeen
	event.Context.Session.SessionStart = false
	event.Context.Session.SessionCount = 0

	req, err := testCollector().Track(event, testSettings())
	require.NoError(t, err)

	_, values := queryOf(t, req)
	assert.Equal(t, "1", values.Get("_fv"))
	assert.Equal(t, "1", values.Get("_nsi"))
	assert.Equal(t, "1", values.Get("seg"))
	assert.False(t, values.Has("_ss"))
	assert.False(t, values.Has("sct"))
}

func TestTrack_DefaultLanguageAndPassthroughClientID(t *testing.T) {
	event := sampleTrackEvent("button_click")
	event.Context.Client.Locale = ""
	event.Context.User.EdgeeID = "1234567.89"

	req, err := testCollector().Track(event, testSettings())
	require.NoError(t, err)

	_, values := queryOf(t, req)
	assert.Equal(t, "en", values.Get("ul"))
	assert.Equal(t, "1234567.89", values.Get("cid"))
}

func TestIdentify_Payload(t *testing.T) {
	req, err := testCollector().Identify(sampleUserEvent("u-1", "anon-1"), testSettings())
	require.NoError(t, err)

	_, values := queryOf(t, req)

	assert.Equal(t, "identify", values.Get("en"))
	assert.Equal(t, "u-1", values.Get("uid"))
	assert.Equal(t, "anon-1", values.Get("up.anonymous_id"))
	assert.Equal(t, "gold", values.Get("up.plan_name"))
	assert.Equal(t, "30", values.Get("upn.age"))
}

func TestIdentify_AnonymousOnly(t *testing.T) {
	event := sampleUserEvent("", "anon-1")
	event.Context.User = domain.UserData{EdgeeID: testVisitorUUID}

	req, err := testCollector().Identify(event, testSettings())
	require.NoError(t, err)

	_, values := queryOf(t, req)
	assert.Equal(t, "anon-1", values.Get("uid"))
	assert.False(t, values.Has("up.anonymous_id"))
}

func TestIdentify_ValidationErrors(t *testing.T) {
	noData := sampleUserEvent("u-1", "")
	noData.Data.User = nil

	for name, event := range map[string]*domain.Event{
		"no user data": noData,
		"no ids":       sampleUserEvent("", ""),
	} {
		t.Run(name, func(t *testing.T) {
			req, err := testCollector().Identify(event, testSettings())

			assert.Nil(t, req)
			var valErr *ValidationError
			assert.True(t, errors.As(err, &valErr))
		})
	}
}

func TestMissingMeasurementID(t *testing.T) {
	c := testCollector()
	settings := Settings{SettingDebugMode: "true"}

	calls := map[string]func() (*Request, error){
		"page":     func() (*Request, error) { return c.Page(samplePageEvent(), settings) },
		"track":    func() (*Request, error) { return c.Track(sampleTrackEvent("purchase"), settings) },
		"identify": func() (*Request, error) { return c.Identify(sampleUserEvent("u-1", ""), settings) },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			req, err := call()

			assert.Nil(t, req)
			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, SettingMeasurementID, cfgErr.Key)
		})
	}
}

func TestBuilder_PayloadFields(t *testing.T) {
	b := NewBuilder(WithRand(fixedRand(7)))

	p, err := b.Track(sampleTrackEvent("purchase"), testSettings())
	require.NoError(t, err)

	require.NotNil(t, p.RandomNonce)
	assert.Equal(t, "7", *p.RandomNonce)
	require.NotNil(t, p.EventName)
	assert.Equal(t, "purchase", *p.EventName)
	assert.Nil(t, p.GTMHash)
	assert.Nil(t, p.DocumentHostname)
	assert.Nil(t, p.Products)
}
