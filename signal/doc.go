// Package signal implements control value providers.
//
// A provider produces the raw normalized value a control-input node
// samples each frame. Providers acquire their signal on their own
// terms, often on another goroutine (an audio callback, a MIDI reader,
// a pointer event handler), and publish the latest value for lock-free
// synchronous sampling: CurrentValue never blocks and never waits for
// fresh data.
//
// Values are in [0, 1]. The engine clamps on sampling, so a provider
// that briefly overshoots does not corrupt downstream parameters.
package signal
