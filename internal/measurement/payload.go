package measurement

// Payload is one collector hit before encoding. Every scalar is optional: a
// nil pointer is absent from the wire and constructors never store an empty
// string. Wire names live in the field table in wire.go.
type Payload struct {
	ProtocolVersion  *string
	TrackingID       *string
	GTMHash          *string
	RandomNonce      *string
	ScreenResolution *string
	UserLanguage     *string
	DocumentHostname *string
	ClientID         *string
	HitCounter       *string
	Richsstsse       *string

	// client hints
	UserAgentArchitecture    *string
	UserAgentBitness         *string
	UserAgentFullVersionList *string
	UserAgentMobile          *string
	UserAgentModel           *string
	UserAgentPlatform        *string
	UserAgentPlatformVersion *string
	UserAgentWow64           *string

	DocumentLocation  *string
	DocumentTitle     *string
	DocumentReferrer  *string
	Z                 *string
	EventUsage        *string
	EventDebugID      *string
	IsDebug           *string
	IgnoreReferrer    *string
	TrafficType       *string
	IsLinkerValid     *string
	CampaignMedium    *string
	CampaignSource    *string
	CampaignName      *string
	CampaignContent   *string
	CampaignTerm      *string
	CampaignFormat    *string
	CampaignTactic    *string
	GclidDeduper      *string
	EventName         *string
	EngagementTime    *string
	EventStrings      *OrderedMap[string]
	EventNumbers      *OrderedMap[float64]
	IsConversion      *string
	ExternalEvent     *string
	UserID            *string
	FirebaseID        *string
	SessionID         *string
	SessionCount      *string
	SessionEngagement *string
	UserStrings       *OrderedMap[string]
	UserNumbers       *OrderedMap[float64]
	FirstVisit        *string
	SessionStart      *string
	LinkerCookie      *string
	NewSessionID      *string
	DeveloperID       *string
	UserCountry       *string

	// consent mode v1
	ConsentStatus     *string
	ConsentUpdate     *string
	ConsentUpdateType *string

	// consent mode v2
	ConsentDetail     *string
	NonPersonalized   *string
	ServiceConsent    *string
	RegionConsent     *string
	CookieDeprecation *string

	TagExperiments *string
	Are            *string
	Pae            *string
	Frm            *string
	ECMode         *string
	Tfd            *string
	CurrencyCode   *string
	IPOverride     *string

	// Products is only populated for track events
	Products []Product
}

// KeyValue is an ordered custom item parameter
type KeyValue struct {
	Key   string
	Value string
}

// Product is one line item of an e-commerce event
type Product struct {
	SKU          *string
	Name         *string
	Affiliation  *string
	Coupon       *string
	Discount     *string
	Index        *string
	Brand        *string
	Category     *string
	Category2    *string
	Category3    *string
	Category4    *string
	Category5    *string
	ListID       *string
	ListName     *string
	Variant      *string
	LocationID   *string
	Price        *string
	Quantity     *string
	CustomParams []KeyValue
}

// opt returns nil for the empty string so empty values never reach the wire
func opt(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (p *Payload) setConsent(c ConsentFields) {
	p.ConsentStatus = opt(c.Status)
	p.ConsentDetail = opt(c.Detail)
	p.NonPersonalized = opt(c.NonPersonalized)
	p.ServiceConsent = opt(c.ServiceConsent)
	p.RegionConsent = opt(c.RegionConsent)
	p.CookieDeprecation = opt(c.CookieDeprecation)
}
