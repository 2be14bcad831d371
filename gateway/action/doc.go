/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package action defines the wire contract between the agent platform and the
// action gateway.
//
// A Request arrives carrying its arguments in one of two shapes: a flat
// parameter list, or a nested request body whose JSON content holds an
// equivalent property list. Source exposes whichever shape carries the
// arguments so resolution happens exactly once, at the gateway boundary.
//
// Every invocation, successful or not, is answered with an Envelope:
//
//	{
//	  "response": {
//	    "actionGroup": "...",
//	    "apiPath": "/file",
//	    "httpMethod": "PUT",
//	    "httpStatusCode": 200,
//	    "responseBody": {"application/json": {"body": ...}}
//	  },
//	  "messageVersion": 1
//	}
//
// The key names and nesting are mandated by the calling platform.
package action
