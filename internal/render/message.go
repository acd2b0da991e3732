package render

// Message is the uniform reply representation across the three modes.
// Text mode fills Text only; composite mode adds ImageURL; screenshot mode
// fills Image and MIME instead.
type Message struct {
	Text     string
	ImageURL string
	Image    []byte
	MIME     string
}
