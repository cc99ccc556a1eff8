package hal

import (
	"presencenode-go/errcode"
	"presencenode-go/x/conv"
)

func unknownPin(n int) error {
	return &errcode.E{C: errcode.UnknownPin, Op: "hal.pin", Msg: "no pin " + conv.Str(n)}
}

func unsupportedIRQ(n int) error {
	return &errcode.E{C: errcode.Unsupported, Op: "hal.irq", Msg: "pin " + conv.Str(n) + " has no interrupt support"}
}
