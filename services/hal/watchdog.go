package hal

// watchdogReset reboots through the watchdog. The watchdog only resets the
// power domains selected in PSM.WDSEL, which is zero after power-on, so
// the selection has to be written before the trigger or nothing resets.
type watchdogReset struct {
	domains uint32
	sel     func(mask uint32)
	trigger func()
	halt    func()
}

func (w watchdogReset) Reset() {
	w.sel(w.domains)
	w.trigger()
	w.halt()
}
