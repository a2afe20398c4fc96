package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// UIWidget is an interface for all UI widgets
type UIWidget interface {
	Update()
	Draw(screen *ebiten.Image)
	// GetHeight is the vertical space taken in the panel, label included
	GetHeight() float64
	// Caption is drawn above the widget
	Caption() string
	moveTo(y float64)
}

func (s *Slider) GetHeight() float64 { return s.H + 25 }
func (s *Slider) Caption() string    { return s.Text() }
func (s *Slider) moveTo(y float64)   { s.Y = y }

func (c *Checkbox) GetHeight() float64 { return c.Size + 20 }
func (c *Checkbox) Caption() string    { return c.Label }
func (c *Checkbox) moveTo(y float64)   { c.Y = y }

func (b *Button) GetHeight() float64 { return b.Height + 10 }
func (b *Button) Caption() string    { return "" }
func (b *Button) moveTo(y float64)   { b.Y = y - 15 }

// UIPanel stacks widgets under section headers in a scrollable column.
type UIPanel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	Widgets       []UIWidget
	ScrollOffset  float64
	Hidden        bool

	BGColor     color.RGBA
	BorderColor color.RGBA

	sections []PanelSection
}

// PanelSection groups the widgets [StartIndex, EndIndex) under a title.
type PanelSection struct {
	Title      string
	StartIndex int
	EndIndex   int
}

// NewUIPanel creates a new UI panel
func NewUIPanel(title string, x, y, width, height float64) *UIPanel {
	return &UIPanel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 230},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

// AddSection starts a new section, widgets added next belong to it.
func (p *UIPanel) AddSection(title string) {
	p.EndSection()
	p.sections = append(p.sections, PanelSection{
		Title:      title,
		StartIndex: len(p.Widgets),
		EndIndex:   len(p.Widgets),
	})
}

// EndSection closes the current section
func (p *UIPanel) EndSection() {
	if len(p.sections) > 0 {
		p.sections[len(p.sections)-1].EndIndex = len(p.Widgets)
	}
}

func (p *UIPanel) add(w UIWidget) {
	p.Widgets = append(p.Widgets, w)
	if len(p.sections) == 0 {
		p.sections = append(p.sections, PanelSection{})
	}
	p.sections[len(p.sections)-1].EndIndex = len(p.Widgets)
}

// AddSlider adds a slider widget to the panel
func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(p.X+10, p.Y, p.Width-20, label, min, max, value)
	p.add(s)
	return s
}

// AddCheckbox adds a checkbox widget to the panel
func (p *UIPanel) AddCheckbox(label string, value bool, onChange func(bool)) *Checkbox {
	c := NewCheckbox(p.X+10, p.Y, label, value, onChange)
	p.add(c)
	return c
}

// AddButton adds a full width button to the panel
func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(p.X+10, p.Y, p.Width-20, 22, label, onClick)
	p.add(b)
	return b
}

// Contains reports whether the point lies on the visible panel, clicks there must not reach the world.
func (p *UIPanel) Contains(x, y int) bool {
	if p.Hidden {
		return false
	}
	return float64(x) >= p.X && float64(x) <= p.X+p.Width &&
		float64(y) >= p.Y && float64(y) <= p.Y+p.Height
}

// Update handles input for all widgets
func (p *UIPanel) Update() {
	if p.Hidden {
		return
	}
	p.layout()

	_, dy := ebiten.Wheel()
	mx, my := ebiten.CursorPosition()
	if dy != 0 && p.Contains(mx, my) {
		p.ScrollOffset -= dy * 20

		maxScroll := p.calculateTotalHeight() - p.Height + 40
		if maxScroll < 0 {
			maxScroll = 0
		}
		if p.ScrollOffset < 0 {
			p.ScrollOffset = 0
		}
		if p.ScrollOffset > maxScroll {
			p.ScrollOffset = maxScroll
		}
	}

	for _, widget := range p.Widgets {
		widget.Update()
	}
}

// layout places every widget under its caption for the current scroll offset.
func (p *UIPanel) layout() {
	currentY := p.Y + 30 - p.ScrollOffset
	for _, section := range p.sections {
		if section.Title != "" {
			currentY += 25
		}
		for i := section.StartIndex; i < section.EndIndex && i < len(p.Widgets); i++ {
			p.Widgets[i].moveTo(currentY + 15)
			currentY += p.Widgets[i].GetHeight()
		}
	}
}

// Draw renders the panel and all widgets
func (p *UIPanel) Draw(screen *ebiten.Image) {
	if p.Hidden {
		return
	}
	p.layout()

	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)

	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+10), int(p.Y+5))

	currentY := p.Y + 30 - p.ScrollOffset
	visible := func(y float64) bool { return y >= p.Y+20 && y <= p.Y+p.Height-20 }
	for _, section := range p.sections {
		if section.Title != "" {
			if visible(currentY) {
				vector.FillRect(screen,
					float32(p.X+5), float32(currentY),
					float32(p.Width-10), 20,
					color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
				ebitenutil.DebugPrintAt(screen, section.Title, int(p.X+10), int(currentY+2))
			}
			currentY += 25
		}
		for i := section.StartIndex; i < section.EndIndex && i < len(p.Widgets); i++ {
			widget := p.Widgets[i]
			if visible(currentY) {
				if c := widget.Caption(); c != "" {
					ebitenutil.DebugPrintAt(screen, c, int(p.X+10), int(currentY-2))
				}
				widget.Draw(screen)
			}
			currentY += widget.GetHeight()
		}
	}
}

// calculateTotalHeight calculates the total content height
func (p *UIPanel) calculateTotalHeight() float64 {
	height := 30.0
	for _, section := range p.sections {
		if section.Title != "" {
			height += 25
		}
	}
	for _, widget := range p.Widgets {
		height += widget.GetHeight()
	}
	return height
}
