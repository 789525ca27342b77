package animation

import "fyne.io/fyne/v2"

// FlashSpec describes a tray icon flash after a phase change. The icon
// alternates between Next and Ended and settles on Next.
type FlashSpec struct {
	Ended fyne.Resource
	Next  fyne.Resource
}
