package measurement

import "github.com/BarkinBalci/measurement-relay/internal/domain"

// ConsentFields are the six consent-mode parameters sent with every hit
type ConsentFields struct {
	Status            string // gcs
	Detail            string // gcd
	NonPersonalized   string // npa
	ServiceConsent    string // dma_cps
	RegionConsent     string // dma
	CookieDeprecation string // pscdl
}

var (
	grantedConsent = ConsentFields{
		Status:            "G111",
		Detail:            "13t3t3t2t5l1",
		NonPersonalized:   "0",
		ServiceConsent:    "syphamo",
		RegionConsent:     "1",
		CookieDeprecation: "noapi",
	}

	// analytics only
	restrictedConsent = ConsentFields{
		Status:            "G101",
		Detail:            "13p3t3p2p5l1",
		NonPersonalized:   "1",
		ServiceConsent:    "-",
		RegionConsent:     "1",
		CookieDeprecation: "denied",
	}
)

// EncodeConsent maps a consent decision onto the consent-mode parameters.
// Anything short of an explicit grant, including no decision, is restricted.
func EncodeConsent(consent *domain.Consent) ConsentFields {
	if consent != nil && *consent == domain.ConsentGranted {
		return grantedConsent
	}
	return restrictedConsent
}
