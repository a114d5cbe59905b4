package common

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/tvcampos/availability_bot/internal/model"
	"github.com/tvcampos/availability_bot/internal/service"
)

// Layout constants
const (
	imageWidth      = 1080
	leftLabelsWidth = 130
	headerHeight    = 64
	weekdayRowH     = 28
	rowHeight       = 34
	shiftGap        = 26
	cellPadding     = 3.0
	cellRadius      = 5.0
	bottomMargin    = 20
)

// Color scheme
var (
	bgColor          = color.RGBA{245, 246, 248, 255}
	titleColor       = color.RGBA{60, 64, 70, 255}
	labelColor       = color.RGBA{110, 115, 120, 255}
	shiftLabelColor  = color.RGBA{80, 85, 90, 255}
	emptyCellColor   = color.RGBA{226, 228, 231, 255}
	availableColor   = color.RGBA{133, 193, 85, 230}
	unavailableColor = color.RGBA{235, 125, 125, 230}
	pendingColor     = color.RGBA{240, 200, 100, 230}
)

// GenerateGridImage renders the weekly availability grid of all shifts as a
// PNG. Grids come in shift order; unconfigured grids are skipped.
func GenerateGridImage(title string, grids []*service.Grid) ([]byte, error) {
	var totalRows int
	var drawn []*service.Grid
	for _, grid := range grids {
		if grid == nil || !grid.Configured || len(grid.Slots) == 0 {
			continue
		}
		drawn = append(drawn, grid)
		totalRows += len(grid.Slots)
	}
	if len(drawn) == 0 {
		return nil, fmt.Errorf("nothing to render: no configured shift")
	}

	height := headerHeight + weekdayRowH + totalRows*rowHeight + len(drawn)*shiftGap + bottomMargin
	dc := gg.NewContext(imageWidth, height)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(bgColor)
	dc.Clear()

	dc.SetColor(titleColor)
	dc.DrawStringAnchored(title, float64(imageWidth)/2, float64(headerHeight)/2, 0.5, 0.5)

	weekdays := model.Weekdays()
	colWidth := float64(imageWidth-leftLabelsWidth) / float64(len(weekdays))

	// weekday header row
	dc.SetColor(labelColor)
	headerY := float64(headerHeight) + float64(weekdayRowH)/2
	for i, weekday := range weekdays {
		x := float64(leftLabelsWidth) + float64(i)*colWidth + colWidth/2
		dc.DrawStringAnchored(weekday.Short(), x, headerY, 0.5, 0.5)
	}

	y := float64(headerHeight + weekdayRowH)
	for _, grid := range drawn {
		y += float64(shiftGap)
		dc.SetColor(shiftLabelColor)
		dc.DrawStringAnchored(grid.Shift.Label(), 10, y-float64(shiftGap)/2, 0, 0.8)

		for rowIdx, slot := range grid.Slots {
			rowY := y + float64(rowIdx)*rowHeight

			dc.SetColor(labelColor)
			dc.DrawStringAnchored(slot.Range(), float64(leftLabelsWidth)-10, rowY+float64(rowHeight)/2, 1, 0.5)

			for colIdx, weekday := range weekdays {
				cells := grid.Cells[weekday]
				if rowIdx >= len(cells) {
					continue
				}
				x := float64(leftLabelsWidth) + float64(colIdx)*colWidth

				dc.SetColor(cellColor(cells[rowIdx].State))
				dc.DrawRoundedRectangle(
					x+cellPadding, rowY+cellPadding,
					colWidth-2*cellPadding, float64(rowHeight)-2*cellPadding,
					cellRadius,
				)
				dc.Fill()
			}
		}
		y += float64(len(grid.Slots)) * rowHeight
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode grid image: %w", err)
	}
	return buf.Bytes(), nil
}

func cellColor(state model.CellState) color.Color {
	switch state {
	case model.CellAvailable:
		return availableColor
	case model.CellUnavailable:
		return unavailableColor
	case model.CellPending:
		return pendingColor
	default:
		return emptyCellColor
	}
}
