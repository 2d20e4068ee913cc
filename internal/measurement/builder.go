package measurement

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
)

// Settings keys understood by the builder
const (
	SettingMeasurementID    = "ga_measurement_id"
	SettingDebugMode        = "ga_debug_mode"
	SettingConversionEvents = "ga_conversion_events"
)

const (
	protocolVersion = "2"
	pageViewEvent   = "page_view"
	identifyEvent   = "identify"
	defaultLanguage = "en"
)

// Settings is the flat per-destination settings dictionary
type Settings map[string]string

// Option configures a Builder or a Collector
type Option func(*options)

type options struct {
	rand             Rand
	searchInLocation bool
	endpoint         string
}

func newOptions(opts []Option) options {
	o := options{
		rand:     globalRand{},
		endpoint: DefaultEndpoint,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithRand sets the source the per-hit nonce is drawn from
func WithRand(r Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rand = r
		}
	}
}

// WithSearchInLocation appends the page search string to the document
// location instead of sending the bare URL
func WithSearchInLocation(enabled bool) Option {
	return func(o *options) {
		o.searchInLocation = enabled
	}
}

// WithEndpoint overrides the collector endpoint
func WithEndpoint(endpoint string) Option {
	return func(o *options) {
		if endpoint != "" {
			o.endpoint = endpoint
		}
	}
}

// Builder assembles one Payload per event. It holds no per-call state and is
// safe for concurrent use when its Rand is.
type Builder struct {
	opts options
}

// NewBuilder creates a new payload builder
func NewBuilder(opts ...Option) *Builder {
	return &Builder{opts: newOptions(opts)}
}

// hit collects the two property scopes while a payload is being assembled
type hit struct {
	payload *Payload
	event   Classification
	user    Classification
}

// Page builds a page_view payload
func (b *Builder) Page(event *domain.Event, settings Settings) (*Payload, error) {
	data := event.Data.Page
	if data == nil {
		return nil, &ValidationError{Field: "data.page", Reason: "missing page data"}
	}

	url := data.URL
	if url == "" {
		url = event.Context.Page.URL
	}
	if url == "" {
		return nil, &ValidationError{Field: "data.page.url", Reason: "page url is required"}
	}

	h, err := b.prelude(event, settings, pageViewEvent)
	if err != nil {
		return nil, err
	}

	h.payload.DocumentLocation = opt(b.location(url, data.Search))
	if data.Title != "" {
		h.payload.DocumentTitle = opt(data.Title)
	}
	if data.Referrer != "" {
		h.payload.DocumentReferrer = opt(data.Referrer)
	}

	setString(h.event.Strings, "page_name", data.Name)
	setString(h.event.Strings, "page_category", data.Category)
	setString(h.event.Strings, "page_keywords", strings.Join(data.Keywords, ","))
	setString(h.event.Strings, "page_search", data.Search)
	h.event.merge(data.Properties, ScopeEvent)

	return h.finish(), nil
}

// Track builds a payload for a named custom or e-commerce event
func (b *Builder) Track(event *domain.Event, settings Settings) (*Payload, error) {
	data := event.Data.Track
	if data == nil {
		return nil, &ValidationError{Field: "data.track", Reason: "missing track data"}
	}
	if data.Name == "" {
		return nil, &ValidationError{Field: "data.track.name", Reason: "event name is required"}
	}

	h, err := b.prelude(event, settings, data.Name)
	if err != nil {
		return nil, err
	}

	h.event.merge(data.Properties, ScopeEvent)

	if len(data.Products) > 0 {
		h.payload.Products = make([]Product, 0, len(data.Products))
		for _, props := range data.Products {
			h.payload.Products = append(h.payload.Products, productFromProperties(props))
		}
	}

	if isConversion(settings, data.Name) {
		h.payload.IsConversion = opt("1")
	}

	return h.finish(), nil
}

// Identify builds a payload carrying the visitor's identifiers and traits
func (b *Builder) Identify(event *domain.Event, settings Settings) (*Payload, error) {
	data := event.Data.User
	if data == nil {
		return nil, &ValidationError{Field: "data.user", Reason: "missing user data"}
	}
	if data.UserID == "" && data.AnonymousID == "" {
		return nil, &ValidationError{Field: "data.user", Reason: "user_id or anonymous_id is required"}
	}

	h, err := b.prelude(event, settings, identifyEvent)
	if err != nil {
		return nil, err
	}

	h.identify(data)
	h.user.merge(data.Properties, ScopeUser)

	return h.finish(), nil
}

// prelude fills the fields shared by every event kind
func (b *Builder) prelude(event *domain.Event, settings Settings, eventName string) (*hit, error) {
	trackingID := settings[SettingMeasurementID]
	if trackingID == "" {
		return nil, &ConfigError{Key: SettingMeasurementID}
	}

	ctx := &event.Context
	p := &Payload{
		ProtocolVersion: opt(protocolVersion),
		TrackingID:      opt(trackingID),
		RandomNonce:     opt(RandomNonce(b.opts.rand)),
		HitCounter:      opt("1"),
		ExternalEvent:   opt("1"),
		EventName:       opt(eventName),
	}

	h := &hit{
		payload: p,
		event:   Classify(nil, ScopeEvent),
		user:    Classify(nil, ScopeUser),
	}
	setString(h.event.Strings, "event_id", event.UUID)

	// page context
	if ctx.Page.URL != "" {
		p.DocumentLocation = opt(b.location(ctx.Page.URL, ctx.Page.Search))
	}
	p.DocumentTitle = opt(ctx.Page.Title)
	p.DocumentReferrer = opt(ctx.Page.Referrer)

	p.setConsent(EncodeConsent(event.Consent))
	p.ClientID = opt(DeriveClientID(ctx.User.EdgeeID, ctx.Session.FirstSeen))

	// client
	p.UserLanguage = opt(ctx.Client.Locale)
	if p.UserLanguage == nil {
		p.UserLanguage = opt(defaultLanguage)
	}
	p.UserAgentFullVersionList = opt(ctx.Client.UserAgentFullVersionList)
	p.UserAgentMobile = opt(ctx.Client.UserAgentMobile)
	p.UserAgentPlatform = opt(ctx.Client.OSName)
	p.UserAgentPlatformVersion = opt(ctx.Client.OSVersion)
	p.UserAgentArchitecture = opt(ctx.Client.UserAgentArchitecture)
	p.UserAgentBitness = opt(ctx.Client.UserAgentBitness)
	p.UserAgentModel = opt(ctx.Client.UserAgentModel)
	if ctx.Client.ScreenWidth > 0 && ctx.Client.ScreenHeight > 0 {
		p.ScreenResolution = opt(fmt.Sprintf("%dx%d", ctx.Client.ScreenWidth, ctx.Client.ScreenHeight))
	}
	p.UserCountry = opt(ctx.Client.CountryCode)
	p.IPOverride = opt(ctx.Client.IP)

	// user
	h.identify(&ctx.User)
	h.user.merge(ctx.User.Properties, ScopeUser)

	// campaign
	p.CampaignMedium = opt(ctx.Campaign.Medium)
	p.CampaignSource = opt(ctx.Campaign.Source)
	p.CampaignName = opt(ctx.Campaign.Name)
	p.CampaignContent = opt(ctx.Campaign.Content)
	p.CampaignTerm = opt(ctx.Campaign.Term)
	p.CampaignFormat = opt(ctx.Campaign.CreativeFormat)
	p.CampaignTactic = opt(ctx.Campaign.MarketingTactic)

	// session
	p.SessionID = opt(ctx.Session.SessionID)
	if ctx.Session.SessionCount > 0 {
		p.SessionCount = opt(strconv.Itoa(int(ctx.Session.SessionCount)))
	}
	if ctx.Session.FirstSeen == ctx.Session.LastSeen {
		p.FirstVisit = opt("1")
		p.NewSessionID = opt("1")
	}
	if ctx.Session.SessionStart {
		p.SessionStart = opt("1")
		p.SessionEngagement = opt("0")
	} else {
		p.SessionEngagement = opt("1")
	}

	if debug, err := strconv.ParseBool(settings[SettingDebugMode]); err == nil && debug {
		p.IsDebug = opt("1")
	}

	return h, nil
}

// identify applies user identifiers: the user id wins over the anonymous id,
// which is then kept as a user property
func (h *hit) identify(user *domain.UserData) {
	if user.AnonymousID != "" {
		h.payload.UserID = opt(user.AnonymousID)
	}
	if user.UserID != "" {
		h.payload.UserID = opt(user.UserID)
		setString(h.user.Strings, "anonymous_id", user.AnonymousID)
	}
}

// finish moves the non-empty property maps onto the payload
func (h *hit) finish() *Payload {
	p := h.payload
	if h.event.Strings.Len() > 0 {
		p.EventStrings = h.event.Strings
	}
	if h.event.Numbers.Len() > 0 {
		p.EventNumbers = h.event.Numbers
	}
	if h.user.Strings.Len() > 0 {
		p.UserStrings = h.user.Strings
	}
	if h.user.Numbers.Len() > 0 {
		p.UserNumbers = h.user.Numbers
	}
	if h.event.Currency != "" {
		p.CurrencyCode = opt(h.event.Currency)
	}
	return p
}

func (b *Builder) location(url, search string) string {
	if b.opts.searchInLocation {
		return url + search
	}
	return url
}

func productFromProperties(props domain.Properties) Product {
	var p Product
	for _, kv := range props {
		key := normalizeKey(kv.Key)
		if key == "" || kv.Value == "" {
			continue
		}

		v := opt(kv.Value)
		switch key {
		case "sku":
			p.SKU = v
		case "name":
			p.Name = v
		case "affiliation":
			p.Affiliation = v
		case "coupon":
			p.Coupon = v
		case "discount":
			p.Discount = v
		case "index":
			p.Index = v
		case "brand":
			p.Brand = v
		case "category":
			p.Category = v
		case "category2":
			p.Category2 = v
		case "category3":
			p.Category3 = v
		case "category4":
			p.Category4 = v
		case "category5":
			p.Category5 = v
		case "list_id":
			p.ListID = v
		case "list_name":
			p.ListName = v
		case "variant":
			p.Variant = v
		case "location_id":
			p.LocationID = v
		case "price":
			p.Price = v
		case "quantity":
			p.Quantity = v
		default:
			p.CustomParams = append(p.CustomParams, KeyValue{Key: key, Value: kv.Value})
		}
	}
	return p
}

func isConversion(settings Settings, eventName string) bool {
	list := settings[SettingConversionEvents]
	if list == "" {
		return false
	}
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == eventName {
			return true
		}
	}
	return false
}

// setString stores non-empty values only
func setString(m *OrderedMap[string], key, value string) {
	if value != "" {
		m.Set(key, value)
	}
}
