package ui

import (
	"image/color"

	"github.com/justyntemme/filedrop/internal/dnd"
)

var (
	colWhite      = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	colBackground = color.NRGBA{R: 250, G: 250, B: 250, A: 255}
	colHeader     = color.NRGBA{R: 238, G: 238, B: 238, A: 255}
	colGray       = color.NRGBA{R: 100, G: 100, B: 100, A: 255}
	colLightGray  = color.NRGBA{R: 200, G: 200, B: 200, A: 255}
	colSidebar    = color.NRGBA{R: 245, G: 245, B: 245, A: 255}
	colAccent     = color.NRGBA{R: 66, G: 133, B: 244, A: 255}
	colSuccess    = color.NRGBA{R: 40, G: 167, B: 69, A: 255}
	colDanger     = color.NRGBA{R: 220, G: 53, B: 69, A: 255}
	colChip       = color.NRGBA{R: 225, G: 235, B: 250, A: 255}

	// Frame and target fills per phase
	colFrameIdle   = color.NRGBA{R: 244, G: 244, B: 244, A: 255}
	colFrameOver   = color.NRGBA{R: 232, G: 240, B: 254, A: 255}
	colTargetIdle  = color.NRGBA{R: 230, G: 230, B: 230, A: 255}
	colTargetOver  = color.NRGBA{R: 200, G: 220, B: 255, A: 255}
	colTargetOK    = color.NRGBA{R: 212, G: 237, B: 218, A: 255}
	colTargetNotOK = color.NRGBA{R: 248, G: 215, B: 218, A: 255}
)

func frameFill(p dnd.Phase) color.NRGBA {
	if p == dnd.Idle {
		return colFrameIdle
	}
	return colFrameOver
}

func targetFill(p dnd.Phase) (fill, border color.NRGBA) {
	switch p {
	case dnd.OverFrameAccept:
		return colTargetOK, colSuccess
	case dnd.OverFrameReject:
		return colTargetNotOK, colDanger
	case dnd.OverFrame:
		return colTargetOver, colAccent
	}
	return colTargetIdle, colLightGray
}
