package render

// RGB is exported for testing
var RGB = rgb
