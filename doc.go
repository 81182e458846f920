/*
Copyright (c) 2013-2018 The btcsuite developers
Copyright (c) 2015-2016 The Decred developers
Use of this source code is governed by an ISC
license that can be found in the LICENSE file.

Cygnusd is a cygnus peer-to-peer node written in Go.

The default options are sane for most users. This means cygnusd will work
'out of the box' for most users. However, there are also a wide variety of
flags that can be used to control it.

Usage:

	cygnusd [OPTIONS]

For an up-to-date help message:

	cygnusd --help
*/
package main
