// Package generation forwards user text to a language model under one of two
// fixed system instructions and returns the generated text.
//
// The gateway holds no state. There is no retry and no caching; every call is
// one upstream request.
package generation
