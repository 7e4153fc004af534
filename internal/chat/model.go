package chat

// Gemini image-capable model IDs
//
// | Model Name                  | API Model ID                    | Use Case                       |
// |-----------------------------|---------------------------------|--------------------------------|
// | Gemini 2.5 Flash Image      | gemini-2.5-flash-image          | Fast conversational edits      |
// | Gemini 2.5 Flash Image (P)  | gemini-2.5-flash-image-preview  | Preview alias of the above     |
// | Gemini 3 Pro Image          | gemini-3-pro-image-preview      | Advanced image generation/edit |
const (
	// ModelGemini25FlashImage is the stable fast image editing model.
	ModelGemini25FlashImage = "gemini-2.5-flash-image"

	// ModelGemini25FlashImagePreview is the preview alias of the flash image model.
	ModelGemini25FlashImagePreview = "gemini-2.5-flash-image-preview"

	// ModelGemini3ProImage is for advanced image generation/edit.
	ModelGemini3ProImage = "gemini-3-pro-image-preview"
)

// DefaultImageModel is the model edits are sent to unless configured otherwise.
const DefaultImageModel = ModelGemini25FlashImage

// OutputMIMEType is the media type reported for every generated image,
// regardless of the input format.
const OutputMIMEType = "image/png"

// ImageModels lists the models known to return inline image parts.
var ImageModels = []string{
	ModelGemini25FlashImage,
	ModelGemini25FlashImagePreview,
	ModelGemini3ProImage,
}

// IsImageModel reports whether name is a known image-output model.
func IsImageModel(name string) bool {
	for _, m := range ImageModels {
		if m == name {
			return true
		}
	}
	return false
}
