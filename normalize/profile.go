package normalize

import "github.com/tidwall/gjson"

// Profile reduces the portal's profile document to the handful of fields
// the client shows. A field is only present when its source section
// exists; a present section with a missing value yields an explicit null.
func Profile(raw []byte) map[string]*string {
	result := make(map[string]*string)
	root := gjson.ParseBytes(raw)

	if personal := root.Get("personal_info"); personal.Exists() {
		result["name"] = textOrNil(personal.Get("Name"))
	}
	if contact := root.Get("contact_info"); contact.Exists() {
		result["mobileNumber"] = textOrNil(contact.Get("Mobile No"))
	}
	if academic := root.Get("academic_info"); academic.Exists() {
		result["srNumber"] = textOrNil(academic.Get("SR No"))
		result["universityRegNo"] = textOrNil(academic.Get("University Reg No"))
	}
	return result
}
