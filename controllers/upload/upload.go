package uploadController

import (
	"log"

	"gradus/middleware"
	"gradus/utils"

	"github.com/gofiber/fiber/v2"
)

// UploadImage accepts a multipart image, re-encodes it to WebP and stores it
func UploadImage(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "File is required!", nil)
	}

	dir := c.FormValue("dir", "uploads")

	storage, err := utils.NewStorageService()
	if err != nil {
		log.Printf("Error initializing storage: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to initialize storage!", nil)
	}

	url, err := storage.UploadImageAsWebP(fileHeader, dir)
	if err != nil {
		log.Printf("Error uploading image: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload image!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Image uploaded successfully!", fiber.Map{
		"url": url,
	})
}

// SignUpload returns a signed PUT URL so the admin SPA can upload directly
func SignUpload(c *fiber.Ctx) error {
	_, ok := c.Locals("adminId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedSign").(*struct {
		Filename    string `json:"filename"`
		ContentType string `json:"contentType"`
		Dir         string `json:"dir"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid upload data!", nil)
	}

	dir := reqData.Dir
	if dir == "" {
		dir = "uploads"
	}

	storage, err := utils.NewStorageService()
	if err != nil {
		log.Printf("Error initializing storage: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to initialize storage!", nil)
	}

	uploadURL, publicURL, err := storage.SignUploadURL(reqData.Filename, reqData.ContentType, dir)
	if err != nil {
		log.Printf("Error signing upload URL: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to sign upload URL!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Upload URL signed successfully!", fiber.Map{
		"upload_url": uploadURL,
		"public_url": publicURL,
	})
}
