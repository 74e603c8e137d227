// Package voice provides the speech-to-speech dialogue loop the shopping
// assistant runs on.
//
// A Pipeline consumes microphone PCM, streams it to a speech-to-speech
// provider, and emits synthesized audio plus transcript/response events.
// The commerce core never touches audio itself: it registers Tools and the
// model invokes them with extracted parameters when the user asks to
// change the cart.
//
// Usage:
//
//	cfg := voice.DefaultConfig()
//	cfg.GoogleAPIKey = os.Getenv("GOOGLE_API_KEY")
//	cfg.SystemPrompt = "You are a friendly shopping assistant..."
//
//	pipeline, err := voice.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pipeline.RegisterTool(voice.Tool{
//	    Name:        "add_to_cart",
//	    Description: "Add a catalog item to the shopping cart",
//	    Handler: func(args map[string]any) (string, error) {
//	        return "Added 2 Wheat Bread to your cart.", nil
//	    },
//	})
//
//	if err := pipeline.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer pipeline.Stop()
//
// The bundled subpackage registers the Gemini Live provider; import it for
// side effects:
//
//	import _ "github.com/teslashibe/go-grocer/pkg/voice/bundled"
package voice
