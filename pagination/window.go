package pagination

// Button is one entry of the page selector: a page number or an ellipsis.
type Button struct {
	Page     int  `json:"page,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Current  bool `json:"current,omitempty"`
}

const WindowSize = 7

// Window lays out at most size page buttons around current. When pages do
// not fit, the first and last pages stay visible and gaps become ellipses.
func Window(current, total, size int) []Button {

	if total < 1 {
		total = 1
	}
	current = Clamp(current, total)
	if size < 5 {
		size = 5
	}

	button := func(page int) Button {
		return Button{Page: page, Current: page == current}
	}

	buttons := []Button{}
	if total <= size {
		for p := 1; p <= total; p++ {
			buttons = append(buttons, button(p))
		}
		return buttons
	}

	// first, last and two ellipses leave size-4 inner pages
	inner := size - 4
	start := current - inner/2
	end := start + inner - 1

	if start <= 3 {
		start = 2
		end = size - 2
	}
	if end >= total-2 {
		end = total - 1
		start = total - (size - 3)
	}

	buttons = append(buttons, button(1))
	if start > 2 {
		buttons = append(buttons, Button{Ellipsis: true})
	}
	for p := start; p <= end; p++ {
		buttons = append(buttons, button(p))
	}
	if end < total-1 {
		buttons = append(buttons, Button{Ellipsis: true})
	}
	buttons = append(buttons, button(total))

	return buttons
}
