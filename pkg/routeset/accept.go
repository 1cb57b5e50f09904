package routeset

import (
	"mime"
	"strconv"
	"strings"
)

// acceptRange is one media range of an Accept header.
type acceptRange struct {
	typ, subtype string
	quality      float64
}

// specificity ranks */* below type/* below type/subtype.
func (r acceptRange) specificity() int {
	switch {
	case r.typ == "*":
		return 1
	case r.subtype == "*":
		return 2
	}
	return 3
}

func (r acceptRange) matches(typ, subtype string) bool {
	switch {
	case r.typ == "*":
		return true
	case r.typ != typ:
		return false
	}
	return r.subtype == "*" || r.subtype == subtype
}

// parseAccept returns the valid media ranges of header. A missing or malformed
// q parameter counts as 1.
func parseAccept(header string) []acceptRange {
	var ranges []acceptRange
	for _, part := range strings.Split(header, ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		typ, subtype, ok := strings.Cut(mediaType, "/")
		if !ok {
			continue
		}
		r := acceptRange{typ: typ, subtype: subtype, quality: 1}
		if q, ok := params["q"]; ok {
			if v, err := strconv.ParseFloat(q, 64); err == nil && v >= 0 && v <= 1 {
				r.quality = v
			}
		}
		ranges = append(ranges, r)
	}
	return ranges
}

// offerQuality is the quality of the most specific range matching offer, or
// 0 when none does.
func offerQuality(ranges []acceptRange, offer string) (quality float64, specificity int) {
	mediaType, _, err := mime.ParseMediaType(offer)
	if err != nil {
		return 0, 0
	}
	typ, subtype, _ := strings.Cut(mediaType, "/")
	for _, r := range ranges {
		if !r.matches(typ, subtype) {
			continue
		}
		if s := r.specificity(); s > specificity {
			quality, specificity = r.quality, s
		}
	}
	return quality, specificity
}

// pickOffer selects the offer with the highest quality; ties keep offer order.
// q=0 excludes an offer.
func pickOffer(accept string, offers []string) (string, bool) {
	if len(offers) == 0 {
		return "application/json", true
	}
	if strings.TrimSpace(accept) == "" {
		return offers[0], true
	}

	ranges := parseAccept(accept)
	if len(ranges) == 0 {
		return offers[0], true
	}

	best, bestQuality := "", 0.0
	for _, offer := range offers {
		if q, _ := offerQuality(ranges, offer); q > bestQuality {
			best, bestQuality = offer, q
		}
	}
	return best, best != ""
}
