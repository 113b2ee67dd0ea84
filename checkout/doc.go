// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package checkout handles payments.

The Louvre digital guide is sold through a hosted checkout page. The API
creates a pending order, sends the visitor to Gateway.RedirectURL, and the
checkout later calls back with a JSON body signed with HMAC-SHA256 in the
X-Checkout-Signature header. VerifyWebhook checks that signature before the
order is settled.

The museum guide and city pass flows settle immediately through Simulate.
*/
package checkout
