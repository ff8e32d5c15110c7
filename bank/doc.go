// SPDX-License-Identifier: EPL-2.0

// Package bank reads and writes instrument banks: zip archives holding an
// SFZ description, its samples and a META-INF/container.xml manifest.
//
// The manifest names the root description and, optionally, the program and
// display name to install it under:
//
//	<container>
//	  <rootfiles>
//	    <rootfile full-path="piano.sfz" program="0" name="Grand Piano"/>
//	  </rootfiles>
//	</container>
//
// An archive without a manifest uses its first file as the root.
package bank
