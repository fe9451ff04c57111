package storage

import (
	"github.com/mpetrov/tasknest/internal/gormw"
	"github.com/mpetrov/tasknest/internal/models"
)

func ListTasks(db *gormw.DB) ([]models.Task, error) {
	var tasks []models.Task
	if err := db.Order("id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func GetTaskByID(db *gormw.DB, id uint) (*models.Task, error) {
	task := &models.Task{}
	if err := db.Where("id = ?", id).First(&task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

func CreateTask(db *gormw.DB, task *models.Task) error {
	return db.Create(task).Error
}

func UpdateTask(db *gormw.DB, task *models.Task) error {
	return db.Save(task).Error
}

func DeleteTask(db *gormw.DB, id uint) error {
	return db.Delete(&models.Task{}, id).Error
}
