// SPDX-License-Identifier: EPL-2.0

package midi

import (
	"bytes"
	"reflect"
	"testing"
	"time"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/ik5/zampler/synth"
)

// twoTracks is 120 bpm at 960 ticks per quarter: one quarter is 500ms.
func twoTracks(t *testing.T) []byte {
	t.Helper()

	var tempo smf.Track
	tempo.Add(0, smf.MetaTempo(120))
	tempo.Close(0)

	var melody smf.Track
	melody.Add(0, midi.ProgramChange(0, 5))
	melody.Add(0, midi.NoteOn(0, 60, 100))
	melody.Add(960, midi.NoteOff(0, 60))
	melody.Add(0, midi.NoteOn(0, 64, 90))
	melody.Add(480, midi.NoteOff(0, 64))
	melody.Close(0)

	var bass smf.Track
	bass.Add(960, midi.NoteOn(1, 36, 80))
	bass.Add(960, midi.NoteOff(1, 36))
	bass.Close(0)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(960)
	for _, tr := range []smf.Track{tempo, melody, bass} {
		if err := s.Add(tr); err != nil {
			t.Fatal(err)
		}
	}
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestReadSMF(t *testing.T) {
	t.Parallel()

	seq, err := ReadSMF(bytes.NewReader(twoTracks(t)))
	if err != nil {
		t.Fatalf("ReadSMF() error = %v", err)
	}

	want := []struct {
		at time.Duration
		ev synth.Event
	}{
		{0, synth.ProgramChange(0, 5)},
		{0, synth.NoteOn(0, 60, 100)},
		{500 * time.Millisecond, synth.NoteOff(0, 60)},
		{500 * time.Millisecond, synth.NoteOn(0, 64, 90)},
		{500 * time.Millisecond, synth.NoteOn(1, 36, 80)},
		{750 * time.Millisecond, synth.NoteOff(0, 64)},
		{time.Second, synth.NoteOff(1, 36)},
	}
	if len(seq) != len(want) {
		t.Fatalf("ReadSMF() = %d events, want %d: %+v", len(seq), len(want), seq)
	}
	for i, w := range want {
		if seq[i].At != w.at || seq[i].Event != w.ev {
			t.Errorf("event %d = %v %+v, want %v %+v", i, seq[i].At, seq[i].Event, w.at, w.ev)
		}
	}

	if seq.Duration() != time.Second {
		t.Errorf("Duration() = %v, want 1s", seq.Duration())
	}
	if got := seq.Channels(); !reflect.DeepEqual(got, []int{0, 1}) {
		t.Errorf("Channels() = %v, want [0 1]", got)
	}
	if f := seq[2].Frame(48000); f != 24000 {
		t.Errorf("Frame(48000) = %d, want 24000", f)
	}
}

func TestReadSMF_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := ReadSMF(bytes.NewReader([]byte("MThd garbage"))); err == nil {
		t.Error("ReadSMF() accepted a corrupt file")
	}
}
