// FluMap - Avian Influenza Case Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flumap

/*
Package supervisor runs FluMap's long-lived services under a suture v4 tree.

	RootSupervisor ("flumap")
	├── DataSupervisor ("data-layer")
	│   ├── DatasetWatcher (if data.watch and the data dir is local)
	│   └── UploadJanitor
	└── APISupervisor ("api-layer")
	    ├── HTTPServerService
	    └── LockoutManager janitor

A crash in the data layer does not stop the HTTP server; datasets are read
from disk on every request, so the API keeps serving while the watcher
restarts.

Supervisor events are logged through sutureslog, bridged to zerolog by
logging.NewSlogLogger.
*/
package supervisor
