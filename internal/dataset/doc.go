// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

/*
Package dataset stores avian-influenza case datasets as CSV files.

A dataset named "switzerland" is the object switzerland.csv in the data
directory. The directory is addressed through github.com/viant/afs, so it may
be a local path, a file:// URL or a mem:// URL (used in tests).

# CSV Layout

The first row is a header and is skipped. Data rows carry nine columns in
fixed order:

	latitude,longitude,species,H5N1,H5N2,H7N2,H7N8,timestamp,provenance

Numeric cells that fail to parse become 0. Rows with fewer than nine columns
are skipped and counted as malformed.

# Uploads

Save checks size and header first. On the local file system it then writes a
hidden .upload-<uuid>.tmp file and renames it into place, so readers never
observe a partial dataset. Other schemes receive the object in a single
upload. Files left behind by interrupted uploads are removed by
CleanupStaleUploads, which the upload janitor calls periodically.

Files are read wholesale on every request. There is no cache of parsed
records.
*/
package dataset
