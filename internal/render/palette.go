package render

import "github.com/fatih/color"

// palette is the color scheme for one render call.
type palette struct {
	Header  *color.Color
	Title   *color.Color
	Meta    *color.Color
	Link    *color.Color
	Muted   *color.Color
	Loading *color.Color
	Warning *color.Color
	Error   *color.Color
}

func newPalette(s Settings) palette {
	p := palette{
		Header:  color.New(color.FgHiRed, color.Bold),
		Title:   color.New(color.FgBlack, color.Bold),
		Meta:    color.New(color.FgHiBlack),
		Link:    color.New(color.FgRed),
		Muted:   color.New(color.FgHiBlack),
		Loading: color.New(color.FgBlue),
		Warning: color.New(color.FgYellow),
		Error:   color.New(color.FgRed, color.Bold),
	}
	if s.DarkMode {
		p.Header = color.New(color.FgHiCyan, color.Bold)
		p.Title = color.New(color.FgHiWhite, color.Bold)
		p.Meta = color.New(color.FgWhite)
		p.Link = color.New(color.FgHiBlue)
		p.Loading = color.New(color.FgCyan)
		p.Error = color.New(color.FgHiRed, color.Bold)
	}

	if s.NoColor {
		for _, c := range []*color.Color{p.Header, p.Title, p.Meta, p.Link, p.Muted, p.Loading, p.Warning, p.Error} {
			c.DisableColor()
		}
	}
	return p
}
