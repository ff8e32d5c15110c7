// SPDX-License-Identifier: EPL-2.0

// Package sfz builds instruments from SFZ text descriptions.
//
// The supported subset covers the headers <control>, <global>, <group> and
// <region>, with inheritance from global to group to region. Recognised
// region opcodes are sample, key, lokey, hikey, lovel, hivel,
// pitch_keycenter, pitch_keytrack, transpose, tune, volume, pan,
// amp_veltrack, offset, loop_mode, loop_start, loop_end, trigger, group,
// off_by and the ampeg_attack/hold/decay/sustain/release envelope. In
// <control>, default_path prefixes sample paths, program declares the
// program number and label names the instrument. Other opcodes are
// reported and ignored.
//
// Sample files are read from an fs.FS and decoded through an
// audio.Registry, so the same loader serves directories and bank archives:
//
//	src := &sfz.Source{FS: os.DirFS("piano"), Path: "piano.sfz", Decoders: reg}
//	patch, err := engine.Load(ctx, src)
package sfz
