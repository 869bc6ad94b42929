package appointments

// pageWindow нормализует номер и размер страницы.
// Страница за пределами диапазона прижимается к последней, пустой список дает одну пустую страницу.
func pageWindow(page, pageSize, total, defaultSize, maxSize int) (normPage, normSize, totalPages, offset int) {
	normSize = pageSize
	if normSize <= 0 {
		normSize = defaultSize
	}
	if normSize > maxSize {
		normSize = maxSize
	}

	totalPages = (total + normSize - 1) / normSize
	if totalPages == 0 {
		totalPages = 1
	}

	normPage = page
	if normPage < 1 {
		normPage = 1
	}
	if normPage > totalPages {
		normPage = totalPages
	}

	return normPage, normSize, totalPages, (normPage - 1) * normSize
}
