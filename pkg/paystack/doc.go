// Package paystack is a thin client for the Paystack REST API.
//
// Every exported endpoint method is a direct passthrough: it sends the given
// parameters to one REST endpoint and returns the decoded envelope
// ({"status", "message", "data", "meta"}) as a *Result. The client performs no
// retries. Transport failures and non-2xx responses are reported as
// *GatewayError values carrying the remote message and HTTP status code, and
// every such error matches errors.Is(err, ErrRequestFailed).
//
// A 2xx response whose envelope reports status=false is not an error at this
// layer; callers decide what a negative status means for their operation.
//
// # Usage
//
//	var cfg paystack.Config
//	config.MustLoad(&cfg)
//
//	client, err := paystack.NewClient(cfg)
//	if err != nil {
//		return err
//	}
//
//	res, err := client.FetchSubscription(ctx, "SUB_vsyqdmlzble3uii")
//	if err != nil {
//		var gwErr *paystack.GatewayError
//		if errors.As(err, &gwErr) {
//			log.Println(gwErr.StatusCode, gwErr.Message)
//		}
//		return err
//	}
//
//	var sub paystack.Subscription
//	if err := res.Decode(&sub); err != nil {
//		return err
//	}
//
// GET parameters are encoded into the query string; all other methods send a
// JSON body. Requests are authenticated with the secret key as a bearer token
// and bounded by Config.Timeout.
package paystack
