package models

// Choice is a value accepted by the backend together with its label.
type Choice struct {
	Value string
	Label string
}

var Languages = []Choice{
	{Value: "en", Label: "English"},
	{Value: "fr", Label: "Français"},
}

var Licenses = []Choice{
	{Value: "cc0", Label: "CC0 (Public Domain)"},
	{Value: "cc-by", Label: "CC BY"},
	{Value: "cc-by-sa", Label: "CC BY-SA"},
	{Value: "cc-by-nd", Label: "CC BY-ND"},
	{Value: "cc-by-nc", Label: "CC BY-NC"},
	{Value: "cc-by-nc-sa", Label: "CC BY-NC-SA"},
	{Value: "cc-by-nc-nd", Label: "CC BY-NC-ND"},
	{Value: "other", Label: "Other"},
}

var ReportReasons = []Choice{
	{Value: "copyright", Label: "Copyright violation"},
	{Value: "spam", Label: "Spam"},
	{Value: "personal_info", Label: "Personal information"},
	{Value: "inappropriate", Label: "Inappropriate content"},
	{Value: "other", Label: "Other"},
}

var Orderings = []Choice{
	{Value: "-created_at", Label: "Newest"},
	{Value: "created_at", Label: "Oldest"},
	{Value: "-view_count", Label: "Most viewed"},
	{Value: "-download_count", Label: "Most downloaded"},
	{Value: "title", Label: "Title"},
}

// ValidChoice reports whether v is one of choices.
func ValidChoice(choices []Choice, v string) bool {
	for _, c := range choices {
		if c.Value == v {
			return true
		}
	}
	return false
}

// Label returns the label for v, or v itself when unknown.
func Label(choices []Choice, v string) string {
	for _, c := range choices {
		if c.Value == v {
			return c.Label
		}
	}
	return v
}
