package core

// Currency is a static reference entry served to clients for profile
// settings; it is not used in money arithmetic.
type Currency struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// Currencies returns the supported currency list.
func Currencies() []Currency {
	return []Currency{
		{Code: "EUR", Name: "Euro", Symbol: "€"},
		{Code: "USD", Name: "US Dollar", Symbol: "$"},
		{Code: "GBP", Name: "Pound Sterling", Symbol: "£"},
		{Code: "CHF", Name: "Swiss Franc", Symbol: "CHF"},
		{Code: "JPY", Name: "Japanese Yen", Symbol: "¥"},
		{Code: "CAD", Name: "Canadian Dollar", Symbol: "CA$"},
		{Code: "AUD", Name: "Australian Dollar", Symbol: "A$"},
		{Code: "SEK", Name: "Swedish Krona", Symbol: "kr"},
		{Code: "NOK", Name: "Norwegian Krone", Symbol: "kr"},
		{Code: "PLN", Name: "Polish Zloty", Symbol: "zł"},
		{Code: "BRL", Name: "Brazilian Real", Symbol: "R$"},
		{Code: "MXN", Name: "Mexican Peso", Symbol: "MX$"},
		{Code: "INR", Name: "Indian Rupee", Symbol: "₹"},
		{Code: "CNY", Name: "Chinese Yuan", Symbol: "¥"},
	}
}

// Timezones returns the IANA zone names offered at registration.
func Timezones() []string {
	return []string{
		"UTC",
		"Europe/London",
		"Europe/Madrid",
		"Europe/Paris",
		"Europe/Berlin",
		"Europe/Rome",
		"Europe/Amsterdam",
		"Europe/Lisbon",
		"Europe/Stockholm",
		"Europe/Warsaw",
		"Europe/Athens",
		"America/New_York",
		"America/Chicago",
		"America/Denver",
		"America/Los_Angeles",
		"America/Toronto",
		"America/Mexico_City",
		"America/Bogota",
		"America/Sao_Paulo",
		"America/Argentina/Buenos_Aires",
		"Asia/Tokyo",
		"Asia/Shanghai",
		"Asia/Singapore",
		"Asia/Kolkata",
		"Asia/Dubai",
		"Australia/Sydney",
		"Pacific/Auckland",
		"Africa/Johannesburg",
	}
}
