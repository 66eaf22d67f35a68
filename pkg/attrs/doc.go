// Copyright (c) Abstract Machines
// SPDX-License-Identifier: Apache-2.0

// Package attrs translates between the raw CoAP option collection of a
// message and typed request or response attributes.
//
// A Translator decodes a Collection into RequestOptions or ResponseOptions
// and encodes them back. Options without a dedicated field are kept in
// Other under their registry alias; unrecognized elective options are kept
// raw and unrecognized critical options fail with ErrUnknownCriticalOption.
//
//	tr := attrs.New(attrs.Config{Logger: logger})
//	req, err := tr.DecodeRequest(attrs.NewWire(msg.Options()))
//	if err != nil {
//		return err
//	}
//	fmt.Println(req.URI())
package attrs
