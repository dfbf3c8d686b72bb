/*
Package snapshot implements the stored side of a snapshot assertion.

A Snapshot is bound to an id, a directory and a driver. Its blob name is
derived from the id and the driver extension every time it is needed:

	<id>.snap           for drivers without an extension
	<id>.snap.<ext>     otherwise, for example TestFoo__bar.snap.json

The blob contents are exactly the text returned by the driver. Blobs are
always replaced as a whole, the fs backend writes a temporary file and renames
it over the old one.

Storage goes through a simpleblob.Interface rooted at the snapshot directory,
see the storage subpackage.
*/
package snapshot
