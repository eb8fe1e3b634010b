package audit

import (
	"strconv"

	"github.com/cbroglie/mustache"
	eh "github.com/looplab/eventhorizon"
	"github.com/pkg/errors"

	"github.com/nuts-foundation/nuts-consent-ledger/domain/events"
)

const grantedTemplate = `consent #{{consentId}} granted by {{patient}} to {{provider}} covering {{dataTypes}} data type(s) for {{purposes}} purpose(s){{#fromRequest}} (from request #{{fromRequest}}){{/fromRequest}}`

const revokedTemplate = `consent #{{consentId}} revoked by {{patient}}, provider {{provider}}`

const requestedTemplate = `access request #{{requestId}} filed by {{requester}} for patient {{patient}}`

const respondedTemplate = `access request #{{requestId}} {{status}} by {{patient}}{{#expired}} (expired, denied automatically){{/expired}}`

// Render produces the one-line human-readable form of a ledger event.
// Identities appear as-is; content strings stay behind their hashes.
func Render(event eh.Event) (string, error) {
	switch data := event.Data().(type) {
	case *events.ConsentGrantedData:
		ctx := map[string]interface{}{
			"consentId": data.ConsentID,
			"patient":   data.Patient,
			"provider":  data.Provider,
			"dataTypes": len(data.DataTypeHashes),
			"purposes":  len(data.PurposeHashes),
		}
		// As a string so that request #0 still renders the section.
		if data.FromRequest != nil {
			ctx["fromRequest"] = strconv.FormatUint(*data.FromRequest, 10)
		}
		return mustache.Render(grantedTemplate, ctx)
	case *events.ConsentRevokedData:
		return mustache.Render(revokedTemplate, map[string]interface{}{
			"consentId": data.ConsentID,
			"patient":   data.Patient,
			"provider":  data.Provider,
		})
	case *events.AccessRequestedData:
		return mustache.Render(requestedTemplate, map[string]interface{}{
			"requestId": data.RequestID,
			"requester": data.Requester,
			"patient":   data.Patient,
		})
	case *events.AccessRespondedData:
		return mustache.Render(respondedTemplate, map[string]interface{}{
			"requestId": data.RequestID,
			"status":    data.Status,
			"patient":   data.Patient,
			"expired":   data.Expired,
		})
	}
	return "", errors.Errorf("no template for event %s", event.EventType())
}
