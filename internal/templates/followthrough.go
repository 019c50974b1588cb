// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package templates

// GenericResponse is used when no follow-through mapping applies.
const GenericResponse = "legal/generic-response"

type followKey struct {
	kind    string
	docType string
}

var followThrough = map[followKey]string{
	{"response", "motion"}:   "legal/response-to-opposition",
	{"reply", "motion"}:      "legal/reply-brief",
	{"supplement", "motion"}: "legal/supplemental-filing",
	{"amended", "motion"}:    "legal/amended-motion",
	{"response", "federal"}:  "legal/federal-response",
	{"reply", "federal"}:     "legal/federal-reply",
}

// FollowThrough maps a follow-through kind (response, reply, supplement,
// amended) and the original document's type (motion, federal) to the
// template that answers it.
func FollowThrough(kind, docType string) string {
	if id, ok := followThrough[followKey{kind, docType}]; ok {
		return id
	}
	return GenericResponse
}
